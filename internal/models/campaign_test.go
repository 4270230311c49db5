package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCampaignTotalBudget(t *testing.T) {
	campaign := &Campaign{DailyBudget: 25, Duration: 7}
	assert.Equal(t, 175.0, campaign.TotalBudget())
}

func TestCampaignProgress(t *testing.T) {
	t.Run("share of the total budget", func(t *testing.T) {
		campaign := &Campaign{DailyBudget: 10, Duration: 10, Metrics: CampaignMetrics{Spend: 25}}
		assert.Equal(t, 0.25, campaign.Progress())
	})

	t.Run("capped at one when spend overshoots", func(t *testing.T) {
		campaign := &Campaign{DailyBudget: 10, Duration: 1, Metrics: CampaignMetrics{Spend: 12}}
		assert.Equal(t, 1.0, campaign.Progress())
	})

	t.Run("zero budget never divides", func(t *testing.T) {
		campaign := &Campaign{Metrics: CampaignMetrics{Spend: 12}}
		assert.Equal(t, 0.0, campaign.Progress())
	})
}

func TestDefaultTargeting(t *testing.T) {
	targeting := DefaultTargeting()
	assert.Equal(t, 18, targeting.AgeMin)
	assert.Equal(t, 65, targeting.AgeMax)
	assert.Equal(t, []string{"all"}, targeting.Genders)
	assert.Equal(t, []string{"US"}, targeting.Locations)
}
