package services

import (
	"context"
	"math"
	"sort"
	"time"

	"boostpanel/internal/datastore"
	"boostpanel/internal/models"
	"boostpanel/internal/pkg/caching"

	"github.com/samber/do"
	"github.com/uptrace/bun"
)

const (
	VIRAL_TIER_VIRAL  = "viral"
	VIRAL_TIER_HIGH   = "high"
	VIRAL_TIER_MEDIUM = "medium"
	VIRAL_TIER_LOW    = "low"

	BOOST_WORTHY_MIN_SCORE = 50.0
)

type ServiceViral struct {
	container  *do.Injector
	postgresDB *bun.DB
	cache      caching.Cache
}

func NewServiceViral(container *do.Injector) (*ServiceViral, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceViral{container, postgresDB, cache}, nil
}

// ScorePost computes the snapshot for a single post, cached briefly since
// metrics only move on sync.
func (service *ServiceViral) ScorePost(ctx context.Context, userID string, postID string) (*models.ViralSnapshot, error) {
	callback := func() (*models.ViralSnapshot, error) {
		post, err := datastore.GetPost(ctx, service.postgresDB, postID)
		if err != nil {
			return nil, err
		}
		snapshot := SnapshotOf(post, time.Now())
		return &snapshot, nil
	}

	return caching.UseCache(ctx, service.cache, DBKeyViralScore(postID), CACHE_TTL_1_MIN, callback)
}

// TopPosts scores the user's recent published posts and returns them ranked,
// highest first, optionally narrowed to one tier.
func (service *ServiceViral) TopPosts(ctx context.Context, userID string, tier string, limit int) ([]models.ViralSnapshot, error) {
	if limit <= 0 || limit > TRANSACTION_PAGE_LIMIT {
		limit = 10
	}

	posts, err := datastore.GetPublishedPosts(ctx, service.postgresDB, userID, TRANSACTION_PAGE_LIMIT)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	snapshots := make([]models.ViralSnapshot, 0, len(posts))
	for _, post := range posts {
		if !MatchesTier(ComputeViralScore(post.Metrics, post.CreatedAt, now), tier) {
			continue
		}
		snapshots = append(snapshots, SnapshotOf(post, now))
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Score > snapshots[j].Score
	})

	if len(snapshots) > limit {
		snapshots = snapshots[:limit]
	}
	return snapshots, nil
}

// SnapshotOf bundles score, tier and budget advice for one post.
func SnapshotOf(post *models.Post, now time.Time) models.ViralSnapshot {
	score := ComputeViralScore(post.Metrics, post.CreatedAt, now)
	return models.ViralSnapshot{
		PostID:            post.ID,
		Score:             score,
		Tier:              TierOf(score),
		RecommendedBudget: RecommendBudget(score, post.Metrics.Reach),
		MinBudget:         int(CAMPAIGN_MIN_DAILY_BUDGET),
		MaxBudget:         int(CAMPAIGN_MAX_DAILY_BUDGET),
	}
}

// ComputeViralScore maps engagement onto a 0..100 scale. Comments and shares
// weigh more than likes, fresh posts decay less, and posts that convert reach
// into engagement get a bonus. Log scaling keeps the distribution usable.
func ComputeViralScore(metrics models.PostMetrics, createdAt time.Time, now time.Time) float64 {
	hoursOld := math.Max(now.Sub(createdAt).Hours(), 1)

	engagement := float64(metrics.Likes)*VIRAL_WEIGHT_LIKE +
		float64(metrics.Comments)*VIRAL_WEIGHT_COMMENT +
		float64(metrics.Shares)*VIRAL_WEIGHT_SHARE

	timeDecay := 1 / math.Sqrt(hoursOld)

	reachEfficiency := 0.0
	if metrics.Reach > 0 {
		reachEfficiency = engagement / float64(metrics.Reach) * 100
	}

	raw := engagement*timeDecay + reachEfficiency*0.5
	score := math.Min(100, math.Max(0, math.Log10(raw+1)*25))
	return math.Round(score*10) / 10
}

// MatchesTier implements the list filter. Viral and high act as lower bounds
// so "high" also surfaces viral posts; medium and low are bands. An empty or
// unknown tier matches everything.
func MatchesTier(score float64, tier string) bool {
	switch tier {
	case VIRAL_TIER_VIRAL:
		return score >= 76
	case VIRAL_TIER_HIGH:
		return score >= 51
	case VIRAL_TIER_MEDIUM:
		return score >= 26 && score < 51
	case VIRAL_TIER_LOW:
		return score < 26
	}
	return true
}

func TierOf(score float64) string {
	switch {
	case score >= 76:
		return VIRAL_TIER_VIRAL
	case score >= 51:
		return VIRAL_TIER_HIGH
	case score >= 26:
		return VIRAL_TIER_MEDIUM
	default:
		return VIRAL_TIER_LOW
	}
}

func IsBoostWorthy(score float64) bool {
	return score >= BOOST_WORTHY_MIN_SCORE
}

// RecommendBudget suggests a daily budget in dollars, scaled up for posts that
// already reach a large audience, clamped to the campaign bounds.
func RecommendBudget(score float64, reach int) int {
	var recommended float64
	switch {
	case score >= 76:
		recommended = 50
	case score >= 51:
		recommended = 25
	default:
		recommended = 10
	}

	if reach > 10000 {
		recommended *= 1.5
	} else if reach > 5000 {
		recommended *= 1.2
	}

	return int(math.Min(CAMPAIGN_MAX_DAILY_BUDGET, math.Max(CAMPAIGN_MIN_DAILY_BUDGET, math.Round(recommended))))
}
