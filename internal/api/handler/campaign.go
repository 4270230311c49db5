package handler

import (
	"strconv"

	"boostpanel/internal/models"
	"boostpanel/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupCampaign struct {
	container *do.Injector
}

type createCampaignPayload struct {
	PostID      string                    `json:"post_id"`
	DailyBudget float64                   `json:"daily_budget"`
	Duration    int                       `json:"duration"`
	Targeting   *models.CampaignTargeting `json:"targeting"`
}

func (gr *groupCampaign) List(c echo.Context) error {
	serviceCampaign, err := do.Invoke[*services.ServiceCampaign](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	campaigns, err := serviceCampaign.List(c.Request().Context(), user.ID, c.QueryParam("status"), limit)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, campaigns, nil)
}

func (gr *groupCampaign) Create(c echo.Context) error {
	serviceCampaign, err := do.Invoke[*services.ServiceCampaign](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload createCampaignPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	campaign, err := serviceCampaign.Create(c.Request().Context(), user.ID, payload.PostID, payload.DailyBudget, payload.Duration, payload.Targeting)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, campaign, nil)
}

func (gr *groupCampaign) Show(c echo.Context) error {
	serviceCampaign, err := do.Invoke[*services.ServiceCampaign](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	campaignID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	campaign, err := serviceCampaign.Get(c.Request().Context(), user.ID, campaignID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]any{
		"campaign": campaign,
		"progress": campaign.Progress(),
	}, nil)
}

func (gr *groupCampaign) Pause(c echo.Context) error {
	return gr.transition(c, models.CAMPAIGN_STATUS_PAUSED)
}

func (gr *groupCampaign) Resume(c echo.Context) error {
	return gr.transition(c, models.CAMPAIGN_STATUS_ACTIVE)
}

func (gr *groupCampaign) Cancel(c echo.Context) error {
	return gr.transition(c, models.CAMPAIGN_STATUS_CANCELLED)
}

func (gr *groupCampaign) transition(c echo.Context, target string) error {
	serviceCampaign, err := do.Invoke[*services.ServiceCampaign](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	campaignID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	campaign, err := serviceCampaign.SetStatus(c.Request().Context(), user.ID, campaignID, target)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, campaign, nil)
}
