package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"boostpanel/internal/datastore"
	"boostpanel/internal/datastore/redis_store"
	"boostpanel/internal/models"
	"boostpanel/internal/pkg"
	"boostpanel/internal/pkg/caching"

	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceRules struct {
	container  *do.Injector
	redisDB    redis.UniversalClient
	postgresDB *bun.DB
	cache      caching.Cache
	config     *ServiceConfig
}

func NewServiceRules(container *do.Injector) (*ServiceRules, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	config, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceRules{container, db, postgresDB, cache, config}, nil
}

// GetConfig returns the user's rule set, or a disabled empty one if none was
// saved yet.
func (service *ServiceRules) GetConfig(ctx context.Context, userID string) (*models.BoostConfig, error) {
	callback := func() (*models.BoostConfig, error) {
		config, err := datastore.GetBoostConfig(ctx, service.postgresDB, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return &models.BoostConfig{UserID: userID, Rules: []models.BoostRule{}}, nil
		}
		return config, err
	}

	return caching.UseCache(ctx, service.cache, DBKeyBoostConfig(userID), CACHE_TTL_1_MIN, callback)
}

// SaveConfig validates and replaces the user's rule set wholesale.
func (service *ServiceRules) SaveConfig(ctx context.Context, userID string, config *models.BoostConfig) (*models.BoostConfig, error) {
	config.UserID = userID
	for i := range config.Rules {
		rule := &config.Rules[i]
		if rule.ID == "" {
			rule.ID = uuid.NewString()
		}
		if err := ValidateRule(rule); err != nil {
			return nil, errorx.Wrap(err, errorx.Validation)
		}
	}

	err := datastore.SaveBoostConfig(ctx, service.postgresDB, config)
	if err != nil {
		return nil, err
	}

	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyBoostConfig(userID))
	return config, nil
}

// EvaluateAll runs one edge-triggered sweep over every enabled configuration.
// Returns the number of plans enqueued.
func (service *ServiceRules) EvaluateAll(ctx context.Context) (int, error) {
	configs, err := datastore.GetEnabledBoostConfigs(ctx, service.postgresDB)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, config := range configs {
		n, err := service.EvaluateUser(ctx, config)
		if err != nil {
			log.Printf("rule sweep: user %s: %v", config.UserID, err)
			continue
		}
		total += n
	}
	return total, nil
}

// EvaluateUser checks the user's recent published posts against their rules.
// A (post, rule) pair fires at most once ever; the marker row is the gate. Per
// post per sweep at most one rule fires, the first matching one.
func (service *ServiceRules) EvaluateUser(ctx context.Context, config *models.BoostConfig) (int, error) {
	if !config.Enabled || len(config.Rules) == 0 {
		return 0, nil
	}

	windowDays, err := service.config.GetIntConfig(ctx, CONFIG_RULE_WINDOW_DAYS, RULE_WINDOW_DEFAULT_DAYS)
	if err != nil {
		windowDays = RULE_WINDOW_DEFAULT_DAYS
	}

	now := time.Now()
	since := now.AddDate(0, 0, -windowDays)
	posts, err := datastore.GetRecentPublishedPosts(ctx, service.postgresDB, config.UserID, since)
	if err != nil {
		return 0, err
	}
	if len(posts) == 0 {
		return 0, nil
	}

	postIDs := make([]string, 0, len(posts))
	for _, post := range posts {
		postIDs = append(postIDs, post.ID)
	}
	markers, err := datastore.GetFiredMarkers(ctx, service.postgresDB, postIDs)
	if err != nil {
		return 0, err
	}
	fired := map[string]map[string]bool{}
	for _, marker := range markers {
		if fired[marker.PostID] == nil {
			fired[marker.PostID] = map[string]bool{}
		}
		fired[marker.PostID][marker.RuleKey] = true
	}

	enqueued := 0
	for _, post := range posts {
		rule := FirstFireable(config.Rules, post, fired[post.ID], now)
		if rule == nil {
			continue
		}

		// idempotent against a concurrent sweep racing on the same pair
		ok, err := datastore.InsertFiredMarker(ctx, service.postgresDB, &models.BoostRuleMarker{
			PostID:  post.ID,
			RuleKey: rule.Key(),
		})
		if err != nil {
			return enqueued, err
		}
		if !ok {
			continue
		}

		n, err := service.enqueueRuleActions(ctx, config.UserID, post.ID, rule)
		if err != nil {
			return enqueued, err
		}
		enqueued += n
	}
	return enqueued, nil
}

// FirstFireable returns the first rule in configured order that matches the
// post and has not fired on it yet, or nil.
func FirstFireable(rules []models.BoostRule, post *models.Post, fired map[string]bool, now time.Time) *models.BoostRule {
	for i := range rules {
		rule := &rules[i]
		if fired[rule.Key()] {
			continue
		}
		if RuleMatches(rule, post, now) {
			return rule
		}
	}
	return nil
}

// Trigger enqueues a manual boost outside of rule evaluation. The post must be
// published.
func (service *ServiceRules) Trigger(ctx context.Context, userID string, postID string, action string, count int) (*models.ActionPlan, error) {
	post, err := datastore.GetPost(ctx, service.postgresDB, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, errorx.Wrap(errors.New("post not found"), errorx.NotExist)
	}
	if post.Status != models.POST_STATUS_PUBLISHED {
		return nil, errorx.Wrap(errors.New("post not published"), errorx.Validation)
	}

	if action != models.ACTION_LIKE && action != models.ACTION_COMMENT && action != models.ACTION_SHARE {
		return nil, errorx.Wrap(fmt.Errorf("invalid action: %s", action), errorx.Validation)
	}
	if count <= 0 || count > INTENSITY_HIGH_MAX {
		return nil, errorx.Wrap(fmt.Errorf("invalid count: %d", count), errorx.Validation)
	}

	plan := &models.ActionPlan{
		ID:             uuid.NewString(),
		UserID:         userID,
		PostID:         postID,
		Action:         action,
		RequestedCount: count,
		RuleKey:        "manual",
		CreatedAt:      time.Now(),
	}
	err = redis_store.PushActionPlan(ctx, service.redisDB, plan)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (service *ServiceRules) enqueueRuleActions(ctx context.Context, userID string, postID string, rule *models.BoostRule) (int, error) {
	enqueued := 0
	for _, action := range rule.Actions {
		plan := &models.ActionPlan{
			ID:             uuid.NewString(),
			UserID:         userID,
			PostID:         postID,
			Action:         action,
			RequestedCount: IntensityCount(rule.Intensity),
			RuleKey:        rule.Key(),
			CreatedAt:      time.Now(),
		}
		err := redis_store.PushActionPlan(ctx, service.redisDB, plan)
		if err != nil {
			return enqueued, err
		}
		enqueued++
	}
	return enqueued, nil
}

// RuleMatches evaluates a single rule against a post's current state.
func RuleMatches(rule *models.BoostRule, post *models.Post, now time.Time) bool {
	switch rule.Type {
	case models.RULE_TYPE_TIME:
		return post.AgeHours(now) >= float64(rule.Condition.Hours)
	case models.RULE_TYPE_ENGAGEMENT:
		return post.Metrics.Likes >= rule.Condition.MinLikes
	}
	return false
}

// IntensityCount draws a target count from the intensity's range.
func IntensityCount(intensity string) int {
	switch intensity {
	case models.INTENSITY_HIGH:
		return pkg.RandBetween(INTENSITY_HIGH_MIN, INTENSITY_HIGH_MAX)
	case models.INTENSITY_MEDIUM:
		return pkg.RandBetween(INTENSITY_MEDIUM_MIN, INTENSITY_MEDIUM_MAX)
	default:
		return pkg.RandBetween(INTENSITY_LOW_MIN, INTENSITY_LOW_MAX)
	}
}

// ValidateRule rejects malformed rules before they are persisted.
func ValidateRule(rule *models.BoostRule) error {
	switch rule.Type {
	case models.RULE_TYPE_TIME:
		if rule.Condition.Hours <= 0 {
			return fmt.Errorf("time rule requires positive hours, got %d", rule.Condition.Hours)
		}
	case models.RULE_TYPE_ENGAGEMENT:
		if rule.Condition.MinLikes <= 0 {
			return fmt.Errorf("engagement rule requires positive min_likes, got %d", rule.Condition.MinLikes)
		}
	default:
		return fmt.Errorf("invalid rule type: %s", rule.Type)
	}

	switch rule.Intensity {
	case models.INTENSITY_LOW, models.INTENSITY_MEDIUM, models.INTENSITY_HIGH:
	default:
		return fmt.Errorf("invalid intensity: %s", rule.Intensity)
	}

	if len(rule.Actions) == 0 {
		return errors.New("rule requires at least one action")
	}
	for _, action := range rule.Actions {
		switch action {
		case models.ACTION_LIKE, models.ACTION_COMMENT, models.ACTION_SHARE:
		default:
			return fmt.Errorf("invalid action: %s", action)
		}
	}

	return nil
}
