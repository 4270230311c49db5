package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	BOOST_STATUS_IN_PROGRESS = "in_progress"
	BOOST_STATUS_COMPLETED   = "completed"
	BOOST_STATUS_FAILED      = "failed"
)

// BoostMetrics accumulates across executions of the same record.
type BoostMetrics struct {
	LikesAdded    int `json:"likes_added"`
	CommentsAdded int `json:"comments_added"`
	SharesAdded   int `json:"shares_added"`
}

// BoostedPost tracks the lifetime of boosting one post. The dispatcher is the
// only writer of metrics/status.
type BoostedPost struct {
	bun.BaseModel `bun:"table:boosted_post"`
	ID            int64        `bun:"id,pk,autoincrement" json:"id"`
	UserID        string       `bun:"user_id" json:"user_id"`
	PostID        string       `bun:"post_id" json:"post_id"`
	BoostStarted  time.Time    `bun:"boost_started,default:current_timestamp" json:"boost_started"`
	BoostEnded    *time.Time   `bun:"boost_ended" json:"boost_ended"`
	Status        string       `bun:"status,default:'in_progress'" json:"status"`
	Metrics       BoostMetrics `bun:"metrics,type:jsonb" json:"metrics"`
	// Remainder is the number of requested actions that could not be
	// executed (pool exhausted / credits truncated). Never silently dropped.
	Remainder     int    `bun:"remainder,default:0" json:"remainder"`
	RuleTriggered string `bun:"rule_triggered" json:"rule_triggered"`
	Error         string `bun:"error" json:"error,omitempty"`
}

func (record *BoostedPost) AddAction(action string, count int) {
	switch action {
	case ACTION_LIKE:
		record.Metrics.LikesAdded += count
	case ACTION_COMMENT:
		record.Metrics.CommentsAdded += count
	case ACTION_SHARE:
		record.Metrics.SharesAdded += count
	}
}

// BoostAnalytics is the dashboard summary over a user's whole boost history.
// Derived on demand from the records and the ledger, never stored.
type BoostAnalytics struct {
	TotalBoosts     int `bun:"total_boosts" json:"total_boosts"`
	Completed       int `bun:"completed" json:"completed"`
	Failed          int `bun:"failed" json:"failed"`
	InProgress      int `bun:"in_progress" json:"in_progress"`
	LikesAdded      int `bun:"likes_added" json:"likes_added"`
	CommentsAdded   int `bun:"comments_added" json:"comments_added"`
	SharesAdded     int `bun:"shares_added" json:"shares_added"`
	Unfulfilled     int `bun:"unfulfilled" json:"unfulfilled"`
	CreditsConsumed int `bun:"-" json:"credits_consumed"`
	CreditsRefunded int `bun:"-" json:"credits_refunded"`
}

// ActionPlan is the ephemeral unit of work the rule engine emits and the
// dispatcher consumes. It lives on a redis list, produced once, consumed once.
type ActionPlan struct {
	ID             string    `json:"id" msgpack:"id"`
	UserID         string    `json:"user_id" msgpack:"user_id"`
	PostID         string    `json:"post_id" msgpack:"post_id"`
	Action         string    `json:"action" msgpack:"action"`
	RequestedCount int       `json:"requested_count" msgpack:"requested_count"`
	RuleKey        string    `json:"rule_key" msgpack:"rule_key"`
	CreatedAt      time.Time `json:"created_at" msgpack:"created_at"`
}
