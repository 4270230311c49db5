package interfaces

import (
	"context"
	"time"

	"github.com/go-redis/redis_rate/v10"

	"boostpanel/internal/models"
)

type Limiter interface {
	// Allow returns an error when the key is over its limit.
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
}

// SessionProvider talks to the social platform on behalf of a boost account.
type SessionProvider interface {
	// Validate performs a login with the stored credential and returns a
	// session token. Failures are reported through FailureKind errors.
	Validate(ctx context.Context, handle string, credentialRef string) (string, error)
	// PerformAction executes one engagement action against the target post.
	PerformAction(ctx context.Context, sessionToken string, targetURL string, action string, comment string) error
}

// AdPlatform is the external advertising API the campaign manager syncs with.
type AdPlatform interface {
	CreateCampaign(ctx context.Context, campaign *models.Campaign) (string, error)
	UpdateCampaignStatus(ctx context.Context, platformID string, status string) error
	FetchInsights(ctx context.Context, platformID string) (*PlatformInsights, error)
}

// ProviderError carries the failure classification used by the account state
// machine: "rateLimited", "banned" or "transient".
type ProviderError struct {
	Kind string
	Err  error
}

func (e *ProviderError) Error() string {
	return e.Kind + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

type PlatformInsights struct {
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Reach       int64   `json:"reach"`
	Clicks      int64   `json:"clicks"`
	FetchedAt   time.Time
}
