package services

import (
	"testing"
	"time"

	"boostpanel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleMatches(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("time rule fires once the post is old enough", func(t *testing.T) {
		rule := &models.BoostRule{Type: models.RULE_TYPE_TIME, Condition: models.RuleCondition{Hours: 24}}

		assert.False(t, RuleMatches(rule, &models.Post{CreatedAt: now.Add(-23 * time.Hour)}, now))
		assert.True(t, RuleMatches(rule, &models.Post{CreatedAt: now.Add(-24 * time.Hour)}, now))
		assert.True(t, RuleMatches(rule, &models.Post{CreatedAt: now.Add(-48 * time.Hour)}, now))
	})

	t.Run("engagement rule fires at the like threshold", func(t *testing.T) {
		rule := &models.BoostRule{Type: models.RULE_TYPE_ENGAGEMENT, Condition: models.RuleCondition{MinLikes: 100}}

		assert.False(t, RuleMatches(rule, &models.Post{Metrics: models.PostMetrics{Likes: 99}}, now))
		assert.True(t, RuleMatches(rule, &models.Post{Metrics: models.PostMetrics{Likes: 100}}, now))
		assert.True(t, RuleMatches(rule, &models.Post{Metrics: models.PostMetrics{Likes: 5000}}, now))
	})

	t.Run("unknown rule type never fires", func(t *testing.T) {
		rule := &models.BoostRule{Type: "velocity", Condition: models.RuleCondition{Hours: 1, MinLikes: 1}}
		assert.False(t, RuleMatches(rule, &models.Post{Metrics: models.PostMetrics{Likes: 5000}}, now))
	})
}

func TestFirstFireable(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rules := []models.BoostRule{
		{ID: "r-time", Type: models.RULE_TYPE_TIME, Condition: models.RuleCondition{Hours: 24}},
		{ID: "r-engagement", Type: models.RULE_TYPE_ENGAGEMENT, Condition: models.RuleCondition{MinLikes: 100}},
	}

	t.Run("first matching rule wins even when a later one also matches", func(t *testing.T) {
		post := &models.Post{CreatedAt: now.Add(-48 * time.Hour), Metrics: models.PostMetrics{Likes: 500}}
		rule := FirstFireable(rules, post, nil, now)
		require.NotNil(t, rule)
		assert.Equal(t, "r-time", rule.ID)
	})

	t.Run("already fired rules are skipped", func(t *testing.T) {
		post := &models.Post{CreatedAt: now.Add(-48 * time.Hour), Metrics: models.PostMetrics{Likes: 500}}
		rule := FirstFireable(rules, post, map[string]bool{"r-time": true}, now)
		require.NotNil(t, rule)
		assert.Equal(t, "r-engagement", rule.ID)
	})

	t.Run("nothing fires when no rule matches or all fired", func(t *testing.T) {
		fresh := &models.Post{CreatedAt: now.Add(-1 * time.Hour), Metrics: models.PostMetrics{Likes: 5}}
		assert.Nil(t, FirstFireable(rules, fresh, nil, now))

		hot := &models.Post{CreatedAt: now.Add(-48 * time.Hour), Metrics: models.PostMetrics{Likes: 500}}
		assert.Nil(t, FirstFireable(rules, hot, map[string]bool{"r-time": true, "r-engagement": true}, now))
	})
}

func TestValidateRule(t *testing.T) {
	valid := func() *models.BoostRule {
		return &models.BoostRule{
			Type:      models.RULE_TYPE_TIME,
			Condition: models.RuleCondition{Hours: 24},
			Actions:   []string{models.ACTION_LIKE, models.ACTION_COMMENT},
			Intensity: models.INTENSITY_MEDIUM,
		}
	}

	t.Run("accepts a well formed rule", func(t *testing.T) {
		require.NoError(t, ValidateRule(valid()))
	})

	t.Run("rejects non-positive conditions", func(t *testing.T) {
		rule := valid()
		rule.Condition.Hours = 0
		assert.Error(t, ValidateRule(rule))

		rule = valid()
		rule.Type = models.RULE_TYPE_ENGAGEMENT
		rule.Condition.MinLikes = 0
		assert.Error(t, ValidateRule(rule))
	})

	t.Run("rejects unknown types, intensities and actions", func(t *testing.T) {
		rule := valid()
		rule.Type = "velocity"
		assert.Error(t, ValidateRule(rule))

		rule = valid()
		rule.Intensity = "extreme"
		assert.Error(t, ValidateRule(rule))

		rule = valid()
		rule.Actions = []string{"follow"}
		assert.Error(t, ValidateRule(rule))
	})

	t.Run("rejects empty action list", func(t *testing.T) {
		rule := valid()
		rule.Actions = nil
		assert.Error(t, ValidateRule(rule))
	})
}

func TestIntensityCount(t *testing.T) {
	cases := []struct {
		intensity string
		min, max  int
	}{
		{models.INTENSITY_LOW, INTENSITY_LOW_MIN, INTENSITY_LOW_MAX},
		{models.INTENSITY_MEDIUM, INTENSITY_MEDIUM_MIN, INTENSITY_MEDIUM_MAX},
		{models.INTENSITY_HIGH, INTENSITY_HIGH_MIN, INTENSITY_HIGH_MAX},
		// unknown intensity falls back to low
		{"extreme", INTENSITY_LOW_MIN, INTENSITY_LOW_MAX},
	}

	for _, c := range cases {
		for i := 0; i < 200; i++ {
			count := IntensityCount(c.intensity)
			require.GreaterOrEqual(t, count, c.min, "intensity %s", c.intensity)
			require.LessOrEqual(t, count, c.max, "intensity %s", c.intensity)
		}
	}
}

func TestPickComment(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.NotEmpty(t, PickComment())
	}
}
