package handler

import (
	"strconv"

	"boostpanel/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupCredit struct {
	container *do.Injector
}

type purchasePayload struct {
	PackageID int64 `json:"package_id"`
}

func (gr *groupCredit) Balance(c echo.Context) error {
	serviceCredit, err := do.Invoke[*services.ServiceCredit](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	balance, err := serviceCredit.Balance(c.Request().Context(), user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]int{"balance": balance}, nil)
}

func (gr *groupCredit) Transactions(c echo.Context) error {
	serviceCredit, err := do.Invoke[*services.ServiceCredit](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	transactions, err := serviceCredit.Transactions(c.Request().Context(), user.ID, limit)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, transactions, nil)
}

func (gr *groupCredit) Packages(c echo.Context) error {
	serviceCredit, err := do.Invoke[*services.ServiceCredit](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	packages, err := serviceCredit.Packages(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, packages, nil)
}

func (gr *groupCredit) Purchase(c echo.Context) error {
	serviceCredit, err := do.Invoke[*services.ServiceCredit](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload purchasePayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	transaction, err := serviceCredit.Purchase(c.Request().Context(), user.ID, payload.PackageID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, transaction, nil)
}
