package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/samber/do"

	"boostpanel/internal/interfaces"
	"boostpanel/internal/models"
)

type graphIDResponse struct {
	ID    string `json:"id"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type graphInsightsResponse struct {
	Data []struct {
		Spend       string `json:"spend"`
		Impressions string `json:"impressions"`
		Reach       string `json:"reach"`
		Clicks      string `json:"clicks"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// AdPlatformGraph implements the campaign sync against a Graph-style marketing
// API: campaign, ad set and ad are created as a hierarchy, with the existing
// post as the creative.
type AdPlatformGraph struct {
	*ServiceHTTP
	baseURL     string
	adAccountID string
	accessToken string
}

func NewAdPlatformGraph(container *do.Injector) (interfaces.AdPlatform, error) {
	baseURL := os.Getenv("AD_PLATFORM_BASE_URL")
	if baseURL == "" {
		return nil, errors.New("invalid AD_PLATFORM_BASE_URL")
	}

	adAccountID := os.Getenv("AD_PLATFORM_ACCOUNT_ID")
	accessToken := os.Getenv("AD_PLATFORM_ACCESS_TOKEN")
	if adAccountID == "" || accessToken == "" {
		return nil, errors.New("invalid ad platform credentials")
	}

	return &AdPlatformGraph{&ServiceHTTP{}, baseURL, adAccountID, accessToken}, nil
}

func (platform *AdPlatformGraph) CreateCampaign(ctx context.Context, campaign *models.Campaign) (string, error) {
	form := url.Values{}
	form.Add("name", fmt.Sprintf("Boost Post %s - %s", campaign.PostID, time.Now().Format(time.RFC3339)))
	form.Add("objective", "POST_ENGAGEMENT")
	form.Add("status", "PAUSED")
	form.Add("access_token", platform.accessToken)

	campaignID, err := platform.postForID(fmt.Sprintf("%s/act_%s/campaigns", platform.baseURL, platform.adAccountID), form)
	if err != nil {
		return "", err
	}

	adSetID, err := platform.createAdSet(campaign, campaignID)
	if err != nil {
		return "", err
	}

	form = url.Values{}
	form.Add("name", fmt.Sprintf("Ad for %s", campaign.PostID))
	form.Add("adset_id", adSetID)
	form.Add("creative", fmt.Sprintf(`{"object_story_id":"%s"}`, campaign.PostID))
	form.Add("status", "PAUSED")
	form.Add("access_token", platform.accessToken)

	_, err = platform.postForID(fmt.Sprintf("%s/act_%s/ads", platform.baseURL, platform.adAccountID), form)
	if err != nil {
		return "", err
	}

	return campaignID, nil
}

func (platform *AdPlatformGraph) createAdSet(campaign *models.Campaign, campaignID string) (string, error) {
	targeting, err := json.Marshal(formatTargeting(campaign.Targeting))
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Add("name", fmt.Sprintf("AdSet for %s", campaign.PostID))
	form.Add("campaign_id", campaignID)
	// the platform bills budgets in cents
	form.Add("daily_budget", strconv.Itoa(int(campaign.DailyBudget*100)))
	form.Add("billing_event", "IMPRESSIONS")
	form.Add("optimization_goal", "POST_ENGAGEMENT")
	form.Add("targeting", string(targeting))
	form.Add("start_time", campaign.StartDate.Format(time.RFC3339))
	form.Add("end_time", campaign.EndDate.Format(time.RFC3339))
	form.Add("status", "PAUSED")
	form.Add("access_token", platform.accessToken)

	return platform.postForID(fmt.Sprintf("%s/act_%s/adsets", platform.baseURL, platform.adAccountID), form)
}

func (platform *AdPlatformGraph) UpdateCampaignStatus(ctx context.Context, platformID string, status string) error {
	form := url.Values{}
	form.Add("status", platformStatus(status))
	form.Add("access_token", platform.accessToken)

	_, err := platform.postForID(fmt.Sprintf("%s/%s", platform.baseURL, platformID), form)
	return err
}

func (platform *AdPlatformGraph) FetchInsights(ctx context.Context, platformID string) (*interfaces.PlatformInsights, error) {
	endpoint := fmt.Sprintf("%s/%s/insights?fields=spend,impressions,reach,clicks&access_token=%s", platform.baseURL, platformID, url.QueryEscape(platform.accessToken))
	res, err := platform.httpClient(0).Get(endpoint, http.Header{})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	response := new(graphInsightsResponse)
	err = json.Unmarshal(body, response)
	if err != nil {
		return nil, err
	}
	if response.Error != nil {
		return nil, fmt.Errorf("insights: %s", response.Error.Message)
	}

	insights := &interfaces.PlatformInsights{FetchedAt: time.Now()}
	if len(response.Data) == 0 {
		return insights, nil
	}

	row := response.Data[0]
	insights.Spend, _ = strconv.ParseFloat(row.Spend, 64)
	insights.Impressions, _ = strconv.ParseInt(row.Impressions, 10, 64)
	insights.Reach, _ = strconv.ParseInt(row.Reach, 10, 64)
	insights.Clicks, _ = strconv.ParseInt(row.Clicks, 10, 64)
	return insights, nil
}

func (platform *AdPlatformGraph) postForID(endpoint string, form url.Values) (string, error) {
	headers := http.Header{}
	headers.Set("content-type", "application/x-www-form-urlencoded")

	res, err := platform.httpClient(0).Post(endpoint, strings.NewReader(form.Encode()), headers)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	response := new(graphIDResponse)
	err = json.Unmarshal(body, response)
	if err != nil {
		return "", err
	}
	if response.Error != nil {
		return "", fmt.Errorf("platform: %s", response.Error.Message)
	}
	if res.StatusCode >= 400 {
		return "", fmt.Errorf("platform status %d: %s", res.StatusCode, body)
	}
	return response.ID, nil
}

// platformStatus maps internal campaign statuses to the platform's vocabulary.
func platformStatus(status string) string {
	switch status {
	case models.CAMPAIGN_STATUS_ACTIVE:
		return "ACTIVE"
	case models.CAMPAIGN_STATUS_PAUSED:
		return "PAUSED"
	default:
		return "DELETED"
	}
}

type graphTargeting struct {
	AgeMin       int              `json:"age_min"`
	AgeMax       int              `json:"age_max"`
	GeoLocations map[string]any   `json:"geo_locations"`
	Genders      []int            `json:"genders,omitempty"`
	FlexibleSpec []map[string]any `json:"flexible_spec,omitempty"`
}

func formatTargeting(targeting models.CampaignTargeting) graphTargeting {
	formatted := graphTargeting{
		AgeMin: targeting.AgeMin,
		AgeMax: targeting.AgeMax,
		GeoLocations: map[string]any{
			"countries": targeting.Locations,
		},
	}

	all := false
	for _, gender := range targeting.Genders {
		if gender == "all" {
			all = true
		}
	}
	if !all {
		for _, gender := range targeting.Genders {
			if gender == "male" {
				formatted.Genders = append(formatted.Genders, 1)
			} else {
				formatted.Genders = append(formatted.Genders, 2)
			}
		}
	}

	if len(targeting.Interests) > 0 {
		interests := make([]map[string]any, 0, len(targeting.Interests))
		for _, id := range targeting.Interests {
			interests = append(interests, map[string]any{"id": id})
		}
		formatted.FlexibleSpec = []map[string]any{{"interests": interests}}
	}

	return formatted
}
