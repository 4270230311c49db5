package services

import (
	"math"
	"testing"
	"time"

	"boostpanel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeViralScore(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("zero engagement scores zero", func(t *testing.T) {
		score := ComputeViralScore(models.PostMetrics{}, now.Add(-2*time.Hour), now)
		assert.Equal(t, 0.0, score)
	})

	t.Run("score is bounded", func(t *testing.T) {
		score := ComputeViralScore(models.PostMetrics{Likes: 1_000_000_000, Reach: 100}, now.Add(-1*time.Hour), now)
		assert.Equal(t, 100.0, score)

		score = ComputeViralScore(models.PostMetrics{Likes: 1}, now.Add(-10000*time.Hour), now)
		assert.GreaterOrEqual(t, score, 0.0)
	})

	t.Run("rounded to one decimal", func(t *testing.T) {
		score := ComputeViralScore(models.PostMetrics{Likes: 137, Comments: 11, Shares: 3, Reach: 4200}, now.Add(-6*time.Hour), now)
		assert.Equal(t, math.Round(score*10)/10, score)
	})

	t.Run("older posts decay", func(t *testing.T) {
		metrics := models.PostMetrics{Likes: 200, Comments: 40, Shares: 10, Reach: 5000}
		fresh := ComputeViralScore(metrics, now.Add(-2*time.Hour), now)
		stale := ComputeViralScore(metrics, now.Add(-72*time.Hour), now)
		assert.Greater(t, fresh, stale)
	})

	t.Run("posts under an hour old are not inflated", func(t *testing.T) {
		metrics := models.PostMetrics{Likes: 200, Comments: 40, Shares: 10, Reach: 5000}
		atFloor := ComputeViralScore(metrics, now.Add(-1*time.Hour), now)
		fresher := ComputeViralScore(metrics, now.Add(-10*time.Minute), now)
		assert.Equal(t, atFloor, fresher)
	})

	t.Run("comments and shares outweigh likes", func(t *testing.T) {
		age := now.Add(-4 * time.Hour)
		likesOnly := ComputeViralScore(models.PostMetrics{Likes: 60}, age, now)
		sharesOnly := ComputeViralScore(models.PostMetrics{Shares: 60}, age, now)
		assert.Greater(t, sharesOnly, likesOnly)
	})

	t.Run("efficient reach scores higher than diluted reach", func(t *testing.T) {
		age := now.Add(-4 * time.Hour)
		efficient := ComputeViralScore(models.PostMetrics{Likes: 100, Reach: 500}, age, now)
		diluted := ComputeViralScore(models.PostMetrics{Likes: 100, Reach: 500_000}, age, now)
		assert.Greater(t, efficient, diluted)
	})
}

func TestTierOf(t *testing.T) {
	assert.Equal(t, VIRAL_TIER_VIRAL, TierOf(100))
	assert.Equal(t, VIRAL_TIER_VIRAL, TierOf(76))
	assert.Equal(t, VIRAL_TIER_HIGH, TierOf(75.9))
	assert.Equal(t, VIRAL_TIER_HIGH, TierOf(51))
	assert.Equal(t, VIRAL_TIER_MEDIUM, TierOf(50.9))
	assert.Equal(t, VIRAL_TIER_MEDIUM, TierOf(26))
	assert.Equal(t, VIRAL_TIER_LOW, TierOf(25.9))
	assert.Equal(t, VIRAL_TIER_LOW, TierOf(0))
}

func TestMatchesTier(t *testing.T) {
	t.Run("viral and high are lower bounds", func(t *testing.T) {
		assert.True(t, MatchesTier(80, VIRAL_TIER_VIRAL))
		assert.False(t, MatchesTier(60, VIRAL_TIER_VIRAL))
		assert.True(t, MatchesTier(80, VIRAL_TIER_HIGH))
		assert.True(t, MatchesTier(60, VIRAL_TIER_HIGH))
		assert.False(t, MatchesTier(40, VIRAL_TIER_HIGH))
	})

	t.Run("medium and low are bands", func(t *testing.T) {
		assert.True(t, MatchesTier(40, VIRAL_TIER_MEDIUM))
		assert.False(t, MatchesTier(60, VIRAL_TIER_MEDIUM))
		assert.False(t, MatchesTier(10, VIRAL_TIER_MEDIUM))
		assert.True(t, MatchesTier(10, VIRAL_TIER_LOW))
		assert.False(t, MatchesTier(40, VIRAL_TIER_LOW))
	})

	t.Run("empty or unknown tier matches everything", func(t *testing.T) {
		for _, score := range []float64{0, 30, 60, 90} {
			assert.True(t, MatchesTier(score, ""))
			assert.True(t, MatchesTier(score, "all"))
		}
	})
}

func TestIsBoostWorthy(t *testing.T) {
	assert.True(t, IsBoostWorthy(50))
	assert.True(t, IsBoostWorthy(80))
	assert.False(t, IsBoostWorthy(49.9))
}

func TestRecommendBudget(t *testing.T) {
	t.Run("tiered base amounts", func(t *testing.T) {
		assert.Equal(t, 50, RecommendBudget(80, 0))
		assert.Equal(t, 25, RecommendBudget(60, 0))
		assert.Equal(t, 10, RecommendBudget(30, 0))
		assert.Equal(t, 10, RecommendBudget(0, 0))
	})

	t.Run("large reach scales the recommendation", func(t *testing.T) {
		assert.Equal(t, 75, RecommendBudget(80, 20_000))
		assert.Equal(t, 38, RecommendBudget(60, 20_000))
		assert.Equal(t, 15, RecommendBudget(30, 20_000))
		assert.Equal(t, 60, RecommendBudget(80, 6_000))
		assert.Equal(t, 30, RecommendBudget(60, 6_000))
		assert.Equal(t, 12, RecommendBudget(30, 6_000))
	})

	t.Run("stays inside campaign bounds", func(t *testing.T) {
		for _, score := range []float64{0, 30, 60, 80, 100} {
			for _, reach := range []int{0, 6_000, 20_000} {
				budget := RecommendBudget(score, reach)
				assert.GreaterOrEqual(t, budget, int(CAMPAIGN_MIN_DAILY_BUDGET))
				assert.LessOrEqual(t, budget, int(CAMPAIGN_MAX_DAILY_BUDGET))
			}
		}
	})
}

func TestSnapshotOf(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	post := &models.Post{
		ID:        "post-1",
		Metrics:   models.PostMetrics{Likes: 500, Comments: 80, Shares: 30, Reach: 2000},
		CreatedAt: now.Add(-3 * time.Hour),
	}

	snapshot := SnapshotOf(post, now)
	require.Equal(t, "post-1", snapshot.PostID)
	assert.Equal(t, TierOf(snapshot.Score), snapshot.Tier)
	assert.Equal(t, RecommendBudget(snapshot.Score, post.Metrics.Reach), snapshot.RecommendedBudget)
	assert.Equal(t, int(CAMPAIGN_MIN_DAILY_BUDGET), snapshot.MinBudget)
	assert.Equal(t, int(CAMPAIGN_MAX_DAILY_BUDGET), snapshot.MaxBudget)
}
