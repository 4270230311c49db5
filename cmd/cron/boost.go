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
	defaultBoostSchedule    = "*/5 * * * *"
	dailyResetSchedule      = "5 0 * * *"
	cooldownRecoverSchedule = "*/10 * * * *"
	errorRetrySchedule      = "*/30 * * * *"
)

type BoostJob struct {
	rules  *services.ServiceRules
	pool   *services.ServiceAccountPool
	config *services.ServiceConfig
}

func NewBoostJob(container *do.Injector) (*BoostJob, error) {
	rules, err := do.Invoke[*services.ServiceRules](container)
	if err != nil {
		return nil, err
	}

	pool, err := do.Invoke[*services.ServiceAccountPool](container)
	if err != nil {
		return nil, err
	}

	config, err := do.Invoke[*services.ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &BoostJob{rules, pool, config}, nil
}

func (j *BoostJob) Start(cronRunner *cron.Cron) {
	schedule, err := j.config.GetStringConfig(context.Background(), services.CONFIG_CRONJOB_TIME_BOOST, defaultBoostSchedule)
	if err != nil {
		schedule = defaultBoostSchedule
	}

	_, err = cronRunner.AddFunc(schedule, j.runRuleSweep)
	log.Println("Boost Cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", schedule, err)

	//nolint:errcheck
	cronRunner.AddFunc(dailyResetSchedule, j.runDailyReset)
	//nolint:errcheck
	cronRunner.AddFunc(cooldownRecoverSchedule, j.runCooldownRecovery)
	//nolint:errcheck
	cronRunner.AddFunc(errorRetrySchedule, j.runErrorRetry)
}

func (j *BoostJob) runRuleSweep() {
	ctx := context.Background()
	enqueued, err := j.rules.EvaluateAll(ctx)
	if err != nil {
		log.Println("rule sweep:", err)
		return
	}
	if enqueued > 0 {
		log.Println("rule sweep: enqueued", enqueued, "plans")
	}
}

func (j *BoostJob) runDailyReset() {
	ctx := context.Background()
	affected, err := j.pool.ResetDailyCounters(ctx)
	if err != nil {
		log.Println("daily reset:", err)
		return
	}
	log.Println("daily reset:", affected, "accounts")
}

func (j *BoostJob) runErrorRetry() {
	ctx := context.Background()
	recovered, err := j.pool.RetryErrorAccounts(ctx)
	if err != nil {
		log.Println("error retry:", err)
		return
	}
	if recovered > 0 {
		log.Println("error retry:", recovered, "accounts back to active")
	}
}

func (j *BoostJob) runCooldownRecovery() {
	ctx := context.Background()
	affected, err := j.pool.RecoverExpiredCooldowns(ctx)
	if err != nil {
		log.Println("cooldown recovery:", err)
		return
	}
	if affected > 0 {
		log.Println("cooldown recovery:", affected, "accounts back to active")
	}
}
