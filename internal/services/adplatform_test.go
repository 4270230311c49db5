package services

import (
	"testing"

	"boostpanel/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPlatformStatus(t *testing.T) {
	assert.Equal(t, "ACTIVE", platformStatus(models.CAMPAIGN_STATUS_ACTIVE))
	assert.Equal(t, "PAUSED", platformStatus(models.CAMPAIGN_STATUS_PAUSED))
	assert.Equal(t, "DELETED", platformStatus(models.CAMPAIGN_STATUS_CANCELLED))
	assert.Equal(t, "DELETED", platformStatus(models.CAMPAIGN_STATUS_COMPLETED))
}

func TestFormatTargeting(t *testing.T) {
	t.Run("defaults keep genders open", func(t *testing.T) {
		formatted := formatTargeting(models.DefaultTargeting())
		assert.Equal(t, 18, formatted.AgeMin)
		assert.Equal(t, 65, formatted.AgeMax)
		assert.Equal(t, map[string]any{"countries": []string{"US"}}, formatted.GeoLocations)
		assert.Empty(t, formatted.Genders)
		assert.Empty(t, formatted.FlexibleSpec)
	})

	t.Run("explicit genders map to platform codes", func(t *testing.T) {
		formatted := formatTargeting(models.CampaignTargeting{
			AgeMin:    21,
			AgeMax:    40,
			Genders:   []string{"male", "female"},
			Locations: []string{"US", "CA"},
		})
		assert.Equal(t, []int{1, 2}, formatted.Genders)
	})

	t.Run("interests become a flexible spec", func(t *testing.T) {
		formatted := formatTargeting(models.CampaignTargeting{
			Genders:   []string{"all"},
			Locations: []string{"US"},
			Interests: []string{"6003139266461"},
		})
		assert.Equal(t, []map[string]any{
			{"interests": []map[string]any{{"id": "6003139266461"}}},
		}, formatted.FlexibleSpec)
	})
}
