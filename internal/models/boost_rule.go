package models

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

const (
	RULE_TYPE_TIME       = "time"
	RULE_TYPE_ENGAGEMENT = "engagement"

	ACTION_LIKE    = "like"
	ACTION_COMMENT = "comment"
	ACTION_SHARE   = "share"

	INTENSITY_LOW    = "low"
	INTENSITY_MEDIUM = "medium"
	INTENSITY_HIGH   = "high"
)

// RuleCondition holds both condition kinds; only the field matching the rule
// type is read.
type RuleCondition struct {
	Hours    int `json:"hours,omitempty"`
	MinLikes int `json:"min_likes,omitempty"`
}

type BoostRule struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"`
	Condition RuleCondition `json:"condition"`
	Actions   []string      `json:"actions"`
	Intensity string        `json:"intensity"`
}

// BoostConfig is the per-user rule set, replaced wholesale on save.
type BoostConfig struct {
	bun.BaseModel    `bun:"table:boost_config"`
	UserID           string      `bun:"user_id,pk" json:"user_id"`
	Enabled          bool        `bun:"enabled,default:false" json:"enabled"`
	Rules            []BoostRule `bun:"rules,type:jsonb" json:"rules"`
	RealBoostEnabled bool        `bun:"real_boost_enabled,default:false" json:"real_boost_enabled"`
	UpdatedAt        time.Time   `bun:"updated_at,default:current_timestamp" json:"updated_at"`
}

// BoostRuleMarker records that a (post, rule) pair already fired, so periodic
// re-evaluation stays edge-triggered across restarts.
type BoostRuleMarker struct {
	bun.BaseModel `bun:"table:boost_rule_marker"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	PostID        string    `bun:"post_id" json:"post_id"`
	RuleKey       string    `bun:"rule_key" json:"rule_key"`
	FiredAt       time.Time `bun:"fired_at,default:current_timestamp" json:"fired_at"`
}

func (rule *BoostRule) Key() string {
	if rule.ID != "" {
		return rule.ID
	}
	if rule.Type == RULE_TYPE_TIME {
		return fmt.Sprintf("%s:%d", rule.Type, rule.Condition.Hours)
	}
	return fmt.Sprintf("%s:%d", rule.Type, rule.Condition.MinLikes)
}
