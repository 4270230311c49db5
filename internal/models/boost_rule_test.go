package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoostRuleKey(t *testing.T) {
	t.Run("uses the id when present", func(t *testing.T) {
		rule := &BoostRule{ID: "abc-123", Type: RULE_TYPE_TIME, Condition: RuleCondition{Hours: 24}}
		assert.Equal(t, "abc-123", rule.Key())
	})

	t.Run("falls back to the condition", func(t *testing.T) {
		rule := &BoostRule{Type: RULE_TYPE_TIME, Condition: RuleCondition{Hours: 24}}
		assert.Equal(t, "time:24", rule.Key())

		rule = &BoostRule{Type: RULE_TYPE_ENGAGEMENT, Condition: RuleCondition{MinLikes: 100}}
		assert.Equal(t, "engagement:100", rule.Key())
	})
}

func TestBoostedPostAddAction(t *testing.T) {
	record := &BoostedPost{}
	record.AddAction(ACTION_LIKE, 10)
	record.AddAction(ACTION_COMMENT, 5)
	record.AddAction(ACTION_SHARE, 2)
	record.AddAction(ACTION_LIKE, 3)
	record.AddAction("follow", 99)

	assert.Equal(t, 13, record.Metrics.LikesAdded)
	assert.Equal(t, 5, record.Metrics.CommentsAdded)
	assert.Equal(t, 2, record.Metrics.SharesAdded)
}
