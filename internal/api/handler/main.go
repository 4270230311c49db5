package handler

import (
	"net/http"

	"boostpanel/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "🚀")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)
		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated request.
		routesAPIv1.GET("", Hello)

		a := groupAccount{cfg.Container}
		routesAPIv1.GET("/boost-accounts", a.List)
		routesAPIv1.POST("/boost-accounts", a.Register)
		routesAPIv1.DELETE("/boost-accounts/:id", a.Remove)
		routesAPIv1.POST("/boost-accounts/:id/test", a.TestLogin)

		b := groupBoost{cfg.Container}
		routesAPIv1.GET("/boost/config", b.GetConfig)
		routesAPIv1.PUT("/boost/config", b.SaveConfig)
		routesAPIv1.GET("/boost/analytics", b.Analytics)
		routesAPIv1.GET("/boost/history", b.History)
		routesAPIv1.GET("/boost/status/:post-id", b.Status)
		routesAPIv1.POST("/boost/trigger", b.Trigger)

		cr := groupCredit{cfg.Container}
		routesAPIv1.GET("/credits/balance", cr.Balance)
		routesAPIv1.GET("/credits/transactions", cr.Transactions)
		routesAPIv1.GET("/credits/packages", cr.Packages)
		routesAPIv1.POST("/credits/purchase", cr.Purchase)

		v := groupViral{cfg.Container}
		routesAPIv1.GET("/viral/posts", v.TopPosts)
		routesAPIv1.GET("/viral/posts/:post-id", v.Score)

		cp := groupCampaign{cfg.Container}
		routesAPIv1.GET("/campaigns", cp.List)
		routesAPIv1.POST("/campaigns", cp.Create)
		routesAPIv1.GET("/campaigns/:id", cp.Show)
		routesAPIv1.POST("/campaigns/:id/pause", cp.Pause)
		routesAPIv1.POST("/campaigns/:id/resume", cp.Resume)
		routesAPIv1.DELETE("/campaigns/:id", cp.Cancel)
	}

	return r, nil
}

func Hello(c echo.Context) error {
	return httpx.RestAbort(c, "hello world", nil)
}
