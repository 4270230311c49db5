package handler

import (
	"strconv"

	"boostpanel/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupViral struct {
	container *do.Injector
}

func (gr *groupViral) TopPosts(c echo.Context) error {
	serviceViral, err := do.Invoke[*services.ServiceViral](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	snapshots, err := serviceViral.TopPosts(c.Request().Context(), user.ID, c.QueryParam("tier"), limit)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, snapshots, nil)
}

func (gr *groupViral) Score(c echo.Context) error {
	serviceViral, err := do.Invoke[*services.ServiceViral](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	snapshot, err := serviceViral.ScorePost(c.Request().Context(), user.ID, c.Param("post-id"))
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, snapshot, nil)
}
