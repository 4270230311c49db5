package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"boostpanel/internal/datastore"
	"boostpanel/internal/interfaces"
	"boostpanel/internal/models"
	"boostpanel/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceCampaign struct {
	container  *do.Injector
	redisDB    redis.UniversalClient
	rs         *redsync.Redsync
	postgresDB *bun.DB
	cache      caching.Cache
	platform   interfaces.AdPlatform
	config     *ServiceConfig
}

func NewServiceCampaign(container *do.Injector) (*ServiceCampaign, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
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

	platform, err := do.Invoke[interfaces.AdPlatform](container)
	if err != nil {
		return nil, err
	}

	config, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceCampaign{container, db, rs, postgresDB, cache, platform, config}, nil
}

// Create validates budget and duration, persists the campaign as draft and
// attempts to register it on the ad platform. Registration failure leaves the
// campaign in draft; the retry sweep picks it up later.
func (service *ServiceCampaign) Create(ctx context.Context, userID string, postID string, dailyBudget float64, duration int, targeting *models.CampaignTargeting) (*models.Campaign, error) {
	if dailyBudget < CAMPAIGN_MIN_DAILY_BUDGET || dailyBudget > CAMPAIGN_MAX_DAILY_BUDGET {
		return nil, errorx.Wrap(fmt.Errorf("daily budget must be between %.0f and %.0f", CAMPAIGN_MIN_DAILY_BUDGET, CAMPAIGN_MAX_DAILY_BUDGET), errorx.Validation)
	}
	if duration < CAMPAIGN_MIN_DURATION || duration > CAMPAIGN_MAX_DURATION {
		return nil, errorx.Wrap(fmt.Errorf("duration must be between %d and %d days", CAMPAIGN_MIN_DURATION, CAMPAIGN_MAX_DURATION), errorx.Validation)
	}

	post, err := datastore.GetPost(ctx, service.postgresDB, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, errorx.Wrap(errors.New("post not found"), errorx.NotExist)
	}

	now := time.Now()
	campaign := &models.Campaign{
		UserID:      userID,
		PostID:      postID,
		DailyBudget: dailyBudget,
		Duration:    duration,
		StartDate:   now,
		EndDate:     now.AddDate(0, 0, duration),
		Status:      models.CAMPAIGN_STATUS_DRAFT,
		Targeting:   models.DefaultTargeting(),
	}
	if targeting != nil {
		campaign.Targeting = *targeting
	}

	err = datastore.InsertCampaign(ctx, service.postgresDB, campaign)
	if err != nil {
		return nil, err
	}

	err = service.register(ctx, campaign)
	if err != nil {
		log.Printf("campaign %d: platform registration deferred: %v", campaign.ID, err)
	}
	return campaign, nil
}

func (service *ServiceCampaign) Get(ctx context.Context, userID string, campaignID int64) (*models.Campaign, error) {
	return datastore.GetCampaign(ctx, service.postgresDB, userID, campaignID)
}

func (service *ServiceCampaign) List(ctx context.Context, userID string, status string, limit int) ([]*models.Campaign, error) {
	if limit <= 0 || limit > TRANSACTION_PAGE_LIMIT {
		limit = TRANSACTION_PAGE_LIMIT
	}
	return datastore.GetCampaigns(ctx, service.postgresDB, userID, status, limit)
}

// SetStatus drives the owner-facing transitions: pause, resume, cancel. The
// transition table rejects everything else.
func (service *ServiceCampaign) SetStatus(ctx context.Context, userID string, campaignID int64, target string) (*models.Campaign, error) {
	mutex := service.rs.NewMutex(LockKeyCampaign(campaignID), redsync.WithTries(5))
	if err := mutex.Lock(); err != nil {
		return nil, errorx.Wrap(ErrCampaignLock, errorx.Invalid)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	campaign, err := datastore.GetCampaign(ctx, service.postgresDB, userID, campaignID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(campaign.Status, target) {
		return nil, errorx.Wrap(fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, campaign.Status, target), errorx.Validation)
	}

	if campaign.PlatformID != "" {
		err = service.platform.UpdateCampaignStatus(ctx, campaign.PlatformID, target)
		if err != nil {
			campaign.LastError = err.Error()
			//nolint:errcheck
			datastore.UpdateCampaign(ctx, service.postgresDB, campaign)
			return nil, errorx.Wrap(err, errorx.Service)
		}
	}

	campaign.Status = target
	campaign.LastError = ""
	err = datastore.UpdateCampaign(ctx, service.postgresDB, campaign)
	if err != nil {
		return nil, err
	}
	return campaign, nil
}

// SyncMetrics pulls insights for active and paused campaigns. Each campaign
// syncs independently; one platform hiccup never blocks the batch.
func (service *ServiceCampaign) SyncMetrics(ctx context.Context) (int, error) {
	batch, err := service.config.GetIntConfig(ctx, CONFIG_CAMPAIGN_SYNC_BATCH, CAMPAIGN_SYNC_BATCH_LIMIT)
	if err != nil {
		batch = CAMPAIGN_SYNC_BATCH_LIMIT
	}

	synced := 0
	for _, status := range []string{models.CAMPAIGN_STATUS_ACTIVE, models.CAMPAIGN_STATUS_PAUSED} {
		campaigns, err := datastore.GetCampaignsByStatus(ctx, service.postgresDB, status, batch)
		if err != nil {
			return synced, err
		}

		for _, campaign := range campaigns {
			if campaign.PlatformID == "" {
				continue
			}
			err := service.syncOne(ctx, campaign)
			if err != nil {
				log.Printf("campaign %d: sync: %v", campaign.ID, err)
				continue
			}
			synced++
		}
	}
	return synced, nil
}

func (service *ServiceCampaign) syncOne(ctx context.Context, campaign *models.Campaign) error {
	insights, err := service.platform.FetchInsights(ctx, campaign.PlatformID)
	if err != nil {
		campaign.LastError = err.Error()
		//nolint:errcheck
		datastore.UpdateCampaign(ctx, service.postgresDB, campaign)
		return err
	}

	campaign.Metrics = models.CampaignMetrics{
		Spend:       insights.Spend,
		Impressions: int(insights.Impressions),
		Reach:       int(insights.Reach),
		Clicks:      int(insights.Clicks),
		CTR:         computeCTR(int(insights.Clicks), int(insights.Impressions)),
	}
	now := time.Now()
	campaign.LastSyncedAt = &now
	campaign.LastError = ""
	return datastore.UpdateCampaign(ctx, service.postgresDB, campaign)
}

// RetryDrafts re-attempts platform registration for drafts that failed it.
func (service *ServiceCampaign) RetryDrafts(ctx context.Context) (int, error) {
	campaigns, err := datastore.GetCampaignsByStatus(ctx, service.postgresDB, models.CAMPAIGN_STATUS_DRAFT, CAMPAIGN_SYNC_BATCH_LIMIT)
	if err != nil {
		return 0, err
	}

	registered := 0
	for _, campaign := range campaigns {
		if campaign.PlatformID != "" {
			continue
		}
		err := service.register(ctx, campaign)
		if err != nil {
			log.Printf("campaign %d: retry registration: %v", campaign.ID, err)
			continue
		}
		registered++
	}
	return registered, nil
}

// CompleteExpired finishes active campaigns whose end date has passed.
func (service *ServiceCampaign) CompleteExpired(ctx context.Context) (int, error) {
	campaigns, err := datastore.GetExpiredActiveCampaigns(ctx, service.postgresDB, time.Now())
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, campaign := range campaigns {
		if campaign.PlatformID != "" {
			err := service.platform.UpdateCampaignStatus(ctx, campaign.PlatformID, models.CAMPAIGN_STATUS_COMPLETED)
			if err != nil {
				log.Printf("campaign %d: complete on platform: %v", campaign.ID, err)
			}
		}
		campaign.Status = models.CAMPAIGN_STATUS_COMPLETED
		err := datastore.UpdateCampaign(ctx, service.postgresDB, campaign)
		if err != nil {
			return completed, err
		}
		completed++
	}
	return completed, nil
}

// register creates the campaign on the ad platform and activates it. Errors
// keep the campaign in draft with the failure recorded.
func (service *ServiceCampaign) register(ctx context.Context, campaign *models.Campaign) error {
	platformID, err := service.platform.CreateCampaign(ctx, campaign)
	if err != nil {
		campaign.LastError = err.Error()
		//nolint:errcheck
		datastore.UpdateCampaign(ctx, service.postgresDB, campaign)
		return err
	}

	campaign.PlatformID = platformID
	campaign.Status = models.CAMPAIGN_STATUS_ACTIVE
	campaign.LastError = ""
	return datastore.UpdateCampaign(ctx, service.postgresDB, campaign)
}

// CanTransition is the campaign state machine. Completed, failed and cancelled
// are terminal.
func CanTransition(from string, to string) bool {
	switch from {
	case models.CAMPAIGN_STATUS_DRAFT:
		return to == models.CAMPAIGN_STATUS_ACTIVE || to == models.CAMPAIGN_STATUS_CANCELLED
	case models.CAMPAIGN_STATUS_ACTIVE:
		return to == models.CAMPAIGN_STATUS_PAUSED || to == models.CAMPAIGN_STATUS_COMPLETED || to == models.CAMPAIGN_STATUS_CANCELLED
	case models.CAMPAIGN_STATUS_PAUSED:
		return to == models.CAMPAIGN_STATUS_ACTIVE || to == models.CAMPAIGN_STATUS_CANCELLED
	}
	return false
}

// computeCTR returns clicks/impressions as a percentage, nil when there are no
// impressions rather than a misleading zero.
func computeCTR(clicks int, impressions int) *float64 {
	if impressions == 0 {
		return nil
	}
	ctr := float64(clicks) / float64(impressions) * 100
	return &ctr
}
