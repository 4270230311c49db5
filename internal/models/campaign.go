package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	CAMPAIGN_STATUS_DRAFT     = "draft"
	CAMPAIGN_STATUS_ACTIVE    = "active"
	CAMPAIGN_STATUS_PAUSED    = "paused"
	CAMPAIGN_STATUS_COMPLETED = "completed"
	CAMPAIGN_STATUS_FAILED    = "failed"
	CAMPAIGN_STATUS_CANCELLED = "cancelled"
)

type CampaignTargeting struct {
	AgeMin    int      `json:"age_min"`
	AgeMax    int      `json:"age_max"`
	Genders   []string `json:"genders"`
	Locations []string `json:"locations"`
	Interests []string `json:"interests"`
}

func DefaultTargeting() CampaignTargeting {
	return CampaignTargeting{
		AgeMin:    18,
		AgeMax:    65,
		Genders:   []string{"all"},
		Locations: []string{"US"},
	}
}

// CampaignMetrics mirrors the ad platform's insight payload. Sync overwrites
// it wholesale; CTR is nil when the platform reports zero impressions.
type CampaignMetrics struct {
	Spend       float64  `json:"spend"`
	Impressions int      `json:"impressions"`
	Reach       int      `json:"reach"`
	Clicks      int      `json:"clicks"`
	CTR         *float64 `json:"ctr"`
}

type Campaign struct {
	bun.BaseModel `bun:"table:campaign"`
	ID            int64             `bun:"id,pk,autoincrement" json:"id"`
	UserID        string            `bun:"user_id" json:"user_id"`
	PostID        string            `bun:"post_id" json:"post_id"`
	PlatformID    string            `bun:"platform_id" json:"platform_id,omitempty"`
	DailyBudget   float64           `bun:"daily_budget" json:"daily_budget"`
	Duration      int               `bun:"duration" json:"duration"`
	StartDate     time.Time         `bun:"start_date" json:"start_date"`
	EndDate       time.Time         `bun:"end_date" json:"end_date"`
	Status        string            `bun:"status,default:'draft'" json:"status"`
	Targeting     CampaignTargeting `bun:"targeting,type:jsonb" json:"targeting"`
	Metrics       CampaignMetrics   `bun:"metrics,type:jsonb" json:"metrics"`
	LastSyncedAt  *time.Time        `bun:"last_synced_at" json:"last_synced_at"`
	LastError     string            `bun:"last_error" json:"last_error,omitempty"`
	CreatedAt     time.Time         `bun:"created_at,default:current_timestamp" json:"created_at"`
}

func (campaign *Campaign) TotalBudget() float64 {
	return campaign.DailyBudget * float64(campaign.Duration)
}

// Progress is the share of the total budget already spent, in [0,1].
func (campaign *Campaign) Progress() float64 {
	total := campaign.TotalBudget()
	if total <= 0 {
		return 0
	}
	progress := campaign.Metrics.Spend / total
	if progress > 1 {
		return 1
	}
	return progress
}

// ViralSnapshot is derived on demand, not a system of record.
type ViralSnapshot struct {
	PostID            string  `json:"post_id"`
	Score             float64 `json:"score"`
	Tier              string  `json:"tier"`
	RecommendedBudget int     `json:"recommended_budget"`
	MinBudget         int     `json:"min_budget"`
	MaxBudget         int     `json:"max_budget"`
}
