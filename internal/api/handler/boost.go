package handler

import (
	"strconv"

	"boostpanel/internal/models"
	"boostpanel/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupBoost struct {
	container *do.Injector
}

type triggerPayload struct {
	PostID string `json:"post_id"`
	Action string `json:"action"`
	Count  int    `json:"count"`
}

func (gr *groupBoost) GetConfig(c echo.Context) error {
	serviceRules, err := do.Invoke[*services.ServiceRules](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	config, err := serviceRules.GetConfig(c.Request().Context(), user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, config, nil)
}

func (gr *groupBoost) SaveConfig(c echo.Context) error {
	serviceRules, err := do.Invoke[*services.ServiceRules](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload models.BoostConfig
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	config, err := serviceRules.SaveConfig(c.Request().Context(), user.ID, &payload)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, config, nil)
}

func (gr *groupBoost) History(c echo.Context) error {
	serviceDispatcher, err := do.Invoke[*services.ServiceDispatcher](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	records, err := serviceDispatcher.History(c.Request().Context(), user.ID, limit)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, records, nil)
}

func (gr *groupBoost) Analytics(c echo.Context) error {
	serviceDispatcher, err := do.Invoke[*services.ServiceDispatcher](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	analytics, err := serviceDispatcher.Analytics(c.Request().Context(), user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, analytics, nil)
}

func (gr *groupBoost) Status(c echo.Context) error {
	serviceDispatcher, err := do.Invoke[*services.ServiceDispatcher](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	record, markers, err := serviceDispatcher.Status(c.Request().Context(), user.ID, c.Param("post-id"))
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]any{
		"record":      record,
		"rules_fired": markers,
	}, nil)
}

func (gr *groupBoost) Trigger(c echo.Context) error {
	serviceRules, err := do.Invoke[*services.ServiceRules](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload triggerPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	plan, err := serviceRules.Trigger(c.Request().Context(), user.ID, payload.PostID, payload.Action, payload.Count)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, plan, nil)
}
