package main

import (
	"context"
	"log"
	"time"

	"boostpanel/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/samber/do"
)

const (
	defaultMetricsSchedule  = "*/15 * * * *"
	defaultCampaignSchedule = "*/30 * * * *"
)

type CampaignJob struct {
	campaigns *services.ServiceCampaign
	config    *services.ServiceConfig
}

func NewCampaignJob(container *do.Injector) (*CampaignJob, error) {
	campaigns, err := do.Invoke[*services.ServiceCampaign](container)
	if err != nil {
		return nil, err
	}

	config, err := do.Invoke[*services.ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &CampaignJob{campaigns, config}, nil
}

func (j *CampaignJob) Start(cronRunner *cron.Cron) {
	metricsSchedule, err := j.config.GetStringConfig(context.Background(), services.CONFIG_CRONJOB_TIME_METRICS, defaultMetricsSchedule)
	if err != nil {
		metricsSchedule = defaultMetricsSchedule
	}

	campaignSchedule, err := j.config.GetStringConfig(context.Background(), services.CONFIG_CRONJOB_TIME_CAMPAIGN, defaultCampaignSchedule)
	if err != nil {
		campaignSchedule = defaultCampaignSchedule
	}

	_, err = cronRunner.AddFunc(metricsSchedule, j.runMetricsSync)
	log.Println("Campaign Cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", metricsSchedule, err)

	//nolint:errcheck
	cronRunner.AddFunc(campaignSchedule, j.runLifecycleSweep)
}

func (j *CampaignJob) runMetricsSync() {
	ctx := context.Background()
	synced, err := j.campaigns.SyncMetrics(ctx)
	if err != nil {
		log.Println("metrics sync:", err)
		return
	}
	if synced > 0 {
		log.Println("metrics sync:", synced, "campaigns")
	}
}

func (j *CampaignJob) runLifecycleSweep() {
	ctx := context.Background()

	registered, err := j.campaigns.RetryDrafts(ctx)
	if err != nil {
		log.Println("draft retry:", err)
	} else if registered > 0 {
		log.Println("draft retry:", registered, "campaigns registered")
	}

	completed, err := j.campaigns.CompleteExpired(ctx)
	if err != nil {
		log.Println("expiry sweep:", err)
	} else if completed > 0 {
		log.Println("expiry sweep:", completed, "campaigns completed")
	}
}
