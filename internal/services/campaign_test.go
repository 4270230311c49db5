package services

import (
	"testing"

	"boostpanel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	allowed := map[[2]string]bool{
		{models.CAMPAIGN_STATUS_DRAFT, models.CAMPAIGN_STATUS_ACTIVE}:     true,
		{models.CAMPAIGN_STATUS_DRAFT, models.CAMPAIGN_STATUS_CANCELLED}:  true,
		{models.CAMPAIGN_STATUS_ACTIVE, models.CAMPAIGN_STATUS_PAUSED}:    true,
		{models.CAMPAIGN_STATUS_ACTIVE, models.CAMPAIGN_STATUS_COMPLETED}: true,
		{models.CAMPAIGN_STATUS_ACTIVE, models.CAMPAIGN_STATUS_CANCELLED}: true,
		{models.CAMPAIGN_STATUS_PAUSED, models.CAMPAIGN_STATUS_ACTIVE}:    true,
		{models.CAMPAIGN_STATUS_PAUSED, models.CAMPAIGN_STATUS_CANCELLED}: true,
	}

	statuses := []string{
		models.CAMPAIGN_STATUS_DRAFT,
		models.CAMPAIGN_STATUS_ACTIVE,
		models.CAMPAIGN_STATUS_PAUSED,
		models.CAMPAIGN_STATUS_COMPLETED,
		models.CAMPAIGN_STATUS_FAILED,
		models.CAMPAIGN_STATUS_CANCELLED,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			assert.Equal(t, allowed[[2]string{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestComputeCTR(t *testing.T) {
	t.Run("nil when there are no impressions", func(t *testing.T) {
		assert.Nil(t, computeCTR(0, 0))
		assert.Nil(t, computeCTR(50, 0))
	})

	t.Run("percentage of impressions", func(t *testing.T) {
		ctr := computeCTR(50, 1000)
		require.NotNil(t, ctr)
		assert.Equal(t, 5.0, *ctr)

		ctr = computeCTR(0, 1000)
		require.NotNil(t, ctr)
		assert.Equal(t, 0.0, *ctr)
	})
}
