package handler

import (
	"strconv"

	"boostpanel/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupAccount struct {
	container *do.Injector
}

type registerAccountPayload struct {
	Handle        string `json:"handle"`
	CredentialRef string `json:"credential_ref"`
	DailyLimit    int    `json:"daily_limit"`
}

func (gr *groupAccount) List(c echo.Context) error {
	servicePool, err := do.Invoke[*services.ServiceAccountPool](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	accounts, err := servicePool.List(c.Request().Context(), user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, accounts, nil)
}

func (gr *groupAccount) Register(c echo.Context) error {
	servicePool, err := do.Invoke[*services.ServiceAccountPool](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload registerAccountPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	account, err := servicePool.Register(c.Request().Context(), user.ID, payload.Handle, payload.CredentialRef, payload.DailyLimit)
	if err != nil {
		// the row may exist with status error; surface both
		return httpx.RestAbort(c, account, err)
	}

	return httpx.RestAbort(c, account, nil)
}

func (gr *groupAccount) Remove(c echo.Context) error {
	servicePool, err := do.Invoke[*services.ServiceAccountPool](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	accountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	err = servicePool.Remove(c.Request().Context(), user.ID, accountID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, true, nil)
}

func (gr *groupAccount) TestLogin(c echo.Context) error {
	servicePool, err := do.Invoke[*services.ServiceAccountPool](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	accountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	account, err := servicePool.TestLogin(c.Request().Context(), user.ID, accountID)
	if err != nil {
		return httpx.RestAbort(c, account, err)
	}

	return httpx.RestAbort(c, account, nil)
}
