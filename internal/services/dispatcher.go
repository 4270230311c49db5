package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"boostpanel/internal/datastore"
	"boostpanel/internal/datastore/redis_store"
	"boostpanel/internal/interfaces"
	"boostpanel/internal/models"
	"boostpanel/internal/pkg"
	"boostpanel/internal/pkg/caching"

	"github.com/go-redis/redis_rate/v10"
	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceDispatcher struct {
	container  *do.Injector
	redisDB    redis.UniversalClient
	rs         *redsync.Redsync
	postgresDB *bun.DB
	cache      caching.Cache
	limiter    interfaces.Limiter
	provider   interfaces.SessionProvider
	pool       *ServiceAccountPool
	credits    *ServiceCredit
	rules      *ServiceRules
	config     *ServiceConfig
	bot        *Bot
}

func NewServiceDispatcher(container *do.Injector) (*ServiceDispatcher, error) {
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

	limiter, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	provider, err := do.Invoke[interfaces.SessionProvider](container)
	if err != nil {
		return nil, err
	}

	pool, err := do.Invoke[*ServiceAccountPool](container)
	if err != nil {
		return nil, err
	}

	credits, err := do.Invoke[*ServiceCredit](container)
	if err != nil {
		return nil, err
	}

	rules, err := do.Invoke[*ServiceRules](container)
	if err != nil {
		return nil, err
	}

	config, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	bot, err := do.Invoke[*Bot](container)
	if err != nil {
		return nil, err
	}

	return &ServiceDispatcher{container, db, rs, postgresDB, cache, limiter, provider, pool, credits, rules, config, bot}, nil
}

// Run drains the plan queue until the context is cancelled.
func (service *ServiceDispatcher) Run(ctx context.Context) error {
	for {
		plan, err := redis_store.PopActionPlan(ctx, service.redisDB, 5*time.Second)
		if err != nil {
			if errors.Is(err, redis_store.ErrQueueEmpty) {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
					continue
				}
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("dispatcher: pop: %v", err)
			continue
		}

		err = service.Process(ctx, plan)
		if err != nil {
			log.Printf("dispatcher: plan %s: %v", plan.ID, err)
		}
	}
}

// Process executes one plan end to end: open or reuse the boost record, pay
// for the work, perform the actions and settle the difference.
func (service *ServiceDispatcher) Process(ctx context.Context, plan *models.ActionPlan) error {
	mutex := service.rs.NewMutex(LockKeyBoostDispatch(plan.UserID, plan.PostID), redsync.WithTries(10), redsync.WithExpiry(DISPATCH_LOCK_TTL))
	if err := mutex.Lock(); err != nil {
		return errorx.Wrap(ErrBoostLock, errorx.Invalid)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	post, err := datastore.GetPost(ctx, service.postgresDB, plan.PostID)
	if err != nil {
		return err
	}

	record, err := service.openRecord(ctx, plan)
	if err != nil {
		return err
	}

	userConfig, err := service.rules.GetConfig(ctx, plan.UserID)
	if err != nil {
		return err
	}

	if !userConfig.RealBoostEnabled {
		return service.processSimulated(ctx, plan, post, record)
	}
	return service.processReal(ctx, plan, post, record, mutex)
}

// processSimulated applies the requested counts instantly. No credits, no
// accounts, no remainder.
func (service *ServiceDispatcher) processSimulated(ctx context.Context, plan *models.ActionPlan, post *models.Post, record *models.BoostedPost) error {
	applyPostMetric(post, plan.Action, plan.RequestedCount)
	err := datastore.UpdatePostMetrics(ctx, service.postgresDB, post)
	if err != nil {
		return err
	}

	record.AddAction(plan.Action, plan.RequestedCount)
	return service.closeRecord(ctx, record, plan.RequestedCount, 0, "")
}

// processReal pays credits up front, spreads the work over eligible accounts
// with human-looking pacing and refunds whatever could not be executed. The
// ledger rejects over-balance debits whole; truncating the request to what the
// balance can fund happens here.
func (service *ServiceDispatcher) processReal(ctx context.Context, plan *models.ActionPlan, post *models.Post, record *models.BoostedPost, mutex *redsync.Mutex) error {
	description := fmt.Sprintf("boost %s %s", plan.Action, plan.PostID)
	tx, err := service.credits.Consume(ctx, plan.UserID, plan.RequestedCount, description, plan.ID)
	if err != nil {
		if !errors.Is(err, ErrInsufficientCredits) {
			return err
		}

		balance, err := service.credits.Balance(ctx, plan.UserID)
		if err != nil {
			return err
		}
		grantable := GrantableCount(balance, plan.RequestedCount)
		if grantable == 0 {
			return service.closeRecord(ctx, record, 0, plan.RequestedCount, ErrInsufficientCredits.Error())
		}

		tx, err = service.credits.Consume(ctx, plan.UserID, grantable, description, plan.ID)
		if err != nil {
			if errors.Is(err, ErrInsufficientCredits) {
				return service.closeRecord(ctx, record, 0, plan.RequestedCount, ErrInsufficientCredits.Error())
			}
			return err
		}
	}

	granted := -tx.Amount
	successes := 0
	used := []int64{}

	ratePerMin, err := service.config.GetIntConfig(ctx, CONFIG_REAL_BOOST_RATE_PER_MIN, REAL_BOOST_DEFAULT_RATE_PER_MIN)
	if err != nil {
		ratePerMin = REAL_BOOST_DEFAULT_RATE_PER_MIN
	}

	for successes < granted {
		accounts, err := service.pool.SelectEligible(ctx, plan.UserID, granted-successes, used)
		if err != nil {
			if errors.Is(err, ErrNoEligibleAccounts) {
				break
			}
			return err
		}

		progressed := false
		for _, account := range accounts {
			if successes >= granted {
				break
			}

			// the run outlives the lock TTL; losing the extension means
			// another worker may own the record now
			if ok, err := mutex.Extend(); err != nil || !ok {
				log.Printf("dispatcher: plan %s: lock lost, settling early", plan.ID)
				return service.settle(ctx, plan, post, record, granted, successes)
			}

			err := service.limiter.Allow(ctx, LimitKeyAccountActions(account.ID), redis_rate.Limit{
				Rate:   ratePerMin,
				Burst:  ratePerMin,
				Period: time.Minute,
			})
			if err != nil {
				used = append(used, account.ID)
				continue
			}

			select {
			case <-time.After(pkg.RandDuration(ACTION_DELAY_MIN, ACTION_DELAY_MAX)):
			case <-ctx.Done():
				return service.settle(ctx, plan, post, record, granted, successes)
			}

			err = service.performOnce(ctx, account, post, plan.Action)
			if err != nil {
				kind := ClassifyFailure(err)
				if failErr := service.pool.RecordFailure(ctx, account, kind); failErr != nil {
					log.Printf("dispatcher: record failure %d: %v", account.ID, failErr)
				}
				if account.Status == models.ACCOUNT_STATUS_BANNED {
					service.notifyBanned(account)
				}
				used = append(used, account.ID)
				continue
			}

			if err := service.pool.RecordSuccess(ctx, account); err != nil {
				log.Printf("dispatcher: record success %d: %v", account.ID, err)
			}
			if !account.Available(time.Now()) {
				used = append(used, account.ID)
			}
			successes++
			progressed = true
		}

		if !progressed {
			break
		}
	}

	return service.settle(ctx, plan, post, record, granted, successes)
}

// settle reconciles money and metrics after execution: refund unexecuted
// credits, bump post metrics by what actually happened and close the record.
func (service *ServiceDispatcher) settle(ctx context.Context, plan *models.ActionPlan, post *models.Post, record *models.BoostedPost, granted int, successes int) error {
	if unused := granted - successes; unused > 0 {
		_, err := service.credits.Refund(ctx, plan.UserID, unused, fmt.Sprintf("refund %s %s", plan.Action, plan.PostID), plan.ID)
		if err != nil {
			log.Printf("dispatcher: refund %s: %v", plan.ID, err)
		}
	}

	if successes > 0 {
		applyPostMetric(post, plan.Action, successes)
		if err := datastore.UpdatePostMetrics(ctx, service.postgresDB, post); err != nil {
			return err
		}
		record.AddAction(plan.Action, successes)
	}

	remainder := plan.RequestedCount - successes
	reason := ""
	if successes == 0 {
		reason = ErrNoEligibleAccounts.Error()
	}
	return service.closeRecord(ctx, record, successes, remainder, reason)
}

func (service *ServiceDispatcher) performOnce(ctx context.Context, account *models.BoostAccount, post *models.Post, action string) error {
	comment := ""
	if action == models.ACTION_COMMENT {
		comment = PickComment()
	}
	return service.provider.PerformAction(ctx, account.SessionToken, post.URL, action, comment)
}

// openRecord reuses an in-progress record for the post or starts a new one.
func (service *ServiceDispatcher) openRecord(ctx context.Context, plan *models.ActionPlan) (*models.BoostedPost, error) {
	record, err := datastore.GetBoostedPost(ctx, service.postgresDB, plan.UserID, plan.PostID)
	if err == nil && record.Status == models.BOOST_STATUS_IN_PROGRESS {
		return record, nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	record = &models.BoostedPost{
		UserID:        plan.UserID,
		PostID:        plan.PostID,
		BoostStarted:  time.Now(),
		Status:        models.BOOST_STATUS_IN_PROGRESS,
		RuleTriggered: plan.RuleKey,
	}
	err = datastore.InsertBoostedPost(ctx, service.postgresDB, record)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// closeRecord finalizes one plan's contribution. Zero successes fails the
// record; anything else completes it and reports the remainder.
func (service *ServiceDispatcher) closeRecord(ctx context.Context, record *models.BoostedPost, successes int, remainder int, reason string) error {
	now := time.Now()
	record.BoostEnded = &now
	record.Remainder += remainder
	if successes == 0 && reason != "" {
		record.Status = models.BOOST_STATUS_FAILED
		record.Error = reason
	} else {
		record.Status = models.BOOST_STATUS_COMPLETED
	}
	err := datastore.UpdateBoostedPost(ctx, service.postgresDB, record)
	if err != nil {
		return err
	}

	service.notifyOwner(record)
	return nil
}

// notifyOwner pushes a completion message to the operator chat when one is
// configured. Notification failures never fail the boost.
func (service *ServiceDispatcher) notifyOwner(record *models.BoostedPost) {
	chatID, err := strconv.ParseInt(os.Getenv("ADMIN_CHAT_ID"), 10, 64)
	if err != nil || chatID == 0 {
		return
	}

	if record.Status == models.BOOST_STATUS_COMPLETED {
		if err := service.bot.NotifyBoostCompleted(chatID, record); err != nil {
			log.Printf("dispatcher: notify: %v", err)
		}
	}
}

func (service *ServiceDispatcher) notifyBanned(account *models.BoostAccount) {
	chatID, err := strconv.ParseInt(os.Getenv("ADMIN_CHAT_ID"), 10, 64)
	if err != nil || chatID == 0 {
		return
	}

	if err := service.bot.NotifyAccountBanned(chatID, account); err != nil {
		log.Printf("dispatcher: notify: %v", err)
	}
}

// History returns the user's boost records, newest first.
func (service *ServiceDispatcher) History(ctx context.Context, userID string, limit int) ([]*models.BoostedPost, error) {
	if limit <= 0 || limit > TRANSACTION_PAGE_LIMIT {
		limit = TRANSACTION_PAGE_LIMIT
	}
	return datastore.GetBoostedPosts(ctx, service.postgresDB, userID, limit)
}

// Status reports the latest record for one post, plus which rules fired on it.
func (service *ServiceDispatcher) Status(ctx context.Context, userID string, postID string) (*models.BoostedPost, []*models.BoostRuleMarker, error) {
	record, err := datastore.GetBoostedPost(ctx, service.postgresDB, userID, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, errorx.Wrap(errors.New("no boost for post"), errorx.NotExist)
		}
		return nil, nil, err
	}

	markers, err := datastore.GetFiredMarkers(ctx, service.postgresDB, []string{postID})
	if err != nil {
		return nil, nil, err
	}
	return record, markers, nil
}

// Analytics aggregates the user's boost history and ledger activity into one
// dashboard summary.
func (service *ServiceDispatcher) Analytics(ctx context.Context, userID string) (*models.BoostAnalytics, error) {
	analytics, err := datastore.GetBoostAnalytics(ctx, service.postgresDB, userID)
	if err != nil {
		return nil, err
	}

	consumed, err := datastore.GetCreditTotalsByType(ctx, service.postgresDB, userID, models.CREDIT_TX_CONSUME)
	if err != nil {
		return nil, err
	}
	refunded, err := datastore.GetCreditTotalsByType(ctx, service.postgresDB, userID, models.CREDIT_TX_REFUND)
	if err != nil {
		return nil, err
	}

	// consume amounts are negative in the ledger
	analytics.CreditsConsumed = -consumed
	analytics.CreditsRefunded = refunded
	return analytics, nil
}

// QueueDepth exposes the pending plan count for operators.
func (service *ServiceDispatcher) QueueDepth(ctx context.Context) (int64, error) {
	return redis_store.PlanQueueLength(ctx, service.redisDB)
}

// GrantableCount truncates a plan's request to what the balance can fund.
func GrantableCount(balance int, requested int) int {
	if balance < 0 {
		return 0
	}
	if requested < balance {
		return requested
	}
	return balance
}

func applyPostMetric(post *models.Post, action string, count int) {
	switch action {
	case models.ACTION_LIKE:
		post.Metrics.Likes += count
	case models.ACTION_COMMENT:
		post.Metrics.Comments += count
	case models.ACTION_SHARE:
		post.Metrics.Shares += count
	}
}
