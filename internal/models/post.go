package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	POST_STATUS_DRAFT     = "draft"
	POST_STATUS_PUBLISHED = "published"
)

// PostMetrics is the engagement snapshot the engine reads for rule evaluation
// and viral scoring. Simulated boosts write back into it.
type PostMetrics struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Shares   int `json:"shares"`
	Reach    int `json:"reach"`
}

// Post is the read model of the content store. The engine never creates posts;
// it only reads them and bumps metrics on the simulated path.
type Post struct {
	bun.BaseModel `bun:"table:post"`
	ID            string      `bun:"id,pk" json:"id"`
	UserID        string      `bun:"user_id" json:"user_id"`
	URL           string      `bun:"url" json:"url"`
	Caption       string      `bun:"caption" json:"caption"`
	Status        string      `bun:"status,default:'published'" json:"status"`
	Metrics       PostMetrics `bun:"metrics,type:jsonb" json:"metrics"`
	CreatedAt     time.Time   `bun:"created_at,default:current_timestamp" json:"created_at"`
}

func (post *Post) AgeHours(now time.Time) float64 {
	return now.Sub(post.CreatedAt).Hours()
}
