package services

import (
	"context"
	"errors"
	"log"
	"time"

	"boostpanel/internal/datastore"
	"boostpanel/internal/interfaces"
	"boostpanel/internal/models"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceAccountPool struct {
	container  *do.Injector
	redisDB    redis.UniversalClient
	rs         *redsync.Redsync
	postgresDB *bun.DB
	provider   interfaces.SessionProvider
}

func NewServiceAccountPool(container *do.Injector) (*ServiceAccountPool, error) {
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

	provider, err := do.Invoke[interfaces.SessionProvider](container)
	if err != nil {
		return nil, err
	}

	return &ServiceAccountPool{container, db, rs, postgresDB, provider}, nil
}

// Register validates the credential before the account joins the pool. A
// failed login still persists the row with status error so the owner can see
// and fix it, and re-registering the same handle replaces the credential
// instead of erroring on the unique (user, handle) index.
func (service *ServiceAccountPool) Register(ctx context.Context, userID string, handle string, credentialRef string, dailyLimit int) (*models.BoostAccount, error) {
	account := &models.BoostAccount{
		UserID:        userID,
		Handle:        handle,
		CredentialRef: credentialRef,
		Status:        models.ACCOUNT_STATUS_ACTIVE,
		DailyLimit:    NormalizeDailyLimit(dailyLimit),
		LastResetDate: time.Now(),
	}

	session, err := service.provider.Validate(ctx, handle, credentialRef)
	if err != nil {
		account.Status = models.ACCOUNT_STATUS_ERROR
		if upsertErr := datastore.UpsertBoostAccount(ctx, service.postgresDB, account); upsertErr != nil {
			return nil, upsertErr
		}
		return account, errorx.Wrap(ErrAuthenticationFailed, errorx.Validation)
	}

	account.SessionToken = session
	err = datastore.UpsertBoostAccount(ctx, service.postgresDB, account)
	if err != nil {
		return nil, err
	}

	return account, nil
}

// NormalizeDailyLimit applies the default quota when the caller does not pick
// one.
func NormalizeDailyLimit(limit int) int {
	if limit <= 0 {
		return DEFAULT_DAILY_ACTION_LIMIT
	}
	return limit
}

func (service *ServiceAccountPool) List(ctx context.Context, userID string) ([]*models.BoostAccount, error) {
	return datastore.GetBoostAccounts(ctx, service.postgresDB, userID)
}

func (service *ServiceAccountPool) Get(ctx context.Context, userID string, accountID int64) (*models.BoostAccount, error) {
	return datastore.GetBoostAccount(ctx, service.postgresDB, userID, accountID)
}

func (service *ServiceAccountPool) Remove(ctx context.Context, userID string, accountID int64) error {
	affected, err := datastore.DeleteBoostAccount(ctx, service.postgresDB, userID, accountID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errorx.Wrap(errors.New("account not found"), errorx.NotExist)
	}
	return nil
}

// TestLogin re-validates an account on demand. A success clears an error
// status and refreshes the session; a failure flips the account to error.
func (service *ServiceAccountPool) TestLogin(ctx context.Context, userID string, accountID int64) (*models.BoostAccount, error) {
	account, err := datastore.GetBoostAccount(ctx, service.postgresDB, userID, accountID)
	if err != nil {
		return nil, err
	}

	if account.Status == models.ACCOUNT_STATUS_BANNED {
		return nil, errorx.Wrap(errors.New("account is banned"), errorx.Validation)
	}

	session, err := service.provider.Validate(ctx, account.Handle, account.CredentialRef)
	if err != nil {
		account.Status = models.ACCOUNT_STATUS_ERROR
		if updateErr := datastore.UpdateBoostAccount(ctx, service.postgresDB, account); updateErr != nil {
			return nil, updateErr
		}
		return account, errorx.Wrap(ErrAuthenticationFailed, errorx.Validation)
	}

	account.SessionToken = session
	if account.Status == models.ACCOUNT_STATUS_ERROR {
		account.Status = models.ACCOUNT_STATUS_ACTIVE
	}
	err = datastore.UpdateBoostAccount(ctx, service.postgresDB, account)
	if err != nil {
		return nil, err
	}

	return account, nil
}

// SelectEligible picks up to `limit` accounts that may act right now, least
// recently used first. IDs in `excluding` are skipped so a single dispatch
// never reuses an account past its share.
func (service *ServiceAccountPool) SelectEligible(ctx context.Context, userID string, limit int, excluding []int64) ([]*models.BoostAccount, error) {
	accounts, err := datastore.GetEligibleBoostAccounts(ctx, service.postgresDB, userID, limit, excluding)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, errorx.Wrap(ErrNoEligibleAccounts, errorx.NotExist)
	}
	return accounts, nil
}

// RecordSuccess bumps the account's counters and clears failure state.
func (service *ServiceAccountPool) RecordSuccess(ctx context.Context, account *models.BoostAccount) error {
	mutex := service.rs.NewMutex(LockKeyAccountPool(account.UserID), redsync.WithTries(5))
	if err := mutex.Lock(); err != nil {
		return errorx.Wrap(ErrAccountPoolLock, errorx.Invalid)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	now := time.Now()
	account.ActionsToday++
	account.TotalActions++
	account.LastActionAt = &now
	account.CooldownStrikes = 0
	account.FailStreak = 0
	if account.Status == models.ACCOUNT_STATUS_COOLDOWN {
		account.Status = models.ACCOUNT_STATUS_ACTIVE
		account.CooldownUntil = nil
	}

	return datastore.UpdateBoostAccount(ctx, service.postgresDB, account)
}

// RecordFailure applies the state machine for a failed action. Rate limits
// put the account in cooldown with doubling backoff, bans are terminal, and
// three transient failures in a row escalate to banned.
func (service *ServiceAccountPool) RecordFailure(ctx context.Context, account *models.BoostAccount, kind string) error {
	mutex := service.rs.NewMutex(LockKeyAccountPool(account.UserID), redsync.WithTries(5))
	if err := mutex.Lock(); err != nil {
		return errorx.Wrap(ErrAccountPoolLock, errorx.Invalid)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	switch kind {
	case models.FAILURE_BANNED:
		account.Status = models.ACCOUNT_STATUS_BANNED
		account.CooldownUntil = nil
	case models.FAILURE_RATE_LIMITED:
		until := time.Now().Add(NextCooldown(account.CooldownStrikes))
		account.Status = models.ACCOUNT_STATUS_COOLDOWN
		account.CooldownUntil = &until
		account.CooldownStrikes++
	default:
		account.FailStreak++
		if account.FailStreak >= FAIL_STREAK_LIMIT {
			account.Status = models.ACCOUNT_STATUS_BANNED
		} else {
			account.Status = models.ACCOUNT_STATUS_ERROR
		}
	}

	return datastore.UpdateBoostAccount(ctx, service.postgresDB, account)
}

// ResetDailyCounters zeroes actions_today for accounts whose last reset was
// before today. Runs from cron but is safe to call any time.
func (service *ServiceAccountPool) ResetDailyCounters(ctx context.Context) (int64, error) {
	return datastore.ResetDailyCounters(ctx, service.postgresDB, time.Now())
}

// RecoverExpiredCooldowns flips cooldown accounts whose window has passed back
// to active.
func (service *ServiceAccountPool) RecoverExpiredCooldowns(ctx context.Context) (int64, error) {
	return datastore.RecoverExpiredCooldowns(ctx, service.postgresDB, time.Now())
}

// RetryErrorAccounts re-validates accounts stuck in error so a transient
// failure does not sideline them until a human intervenes. A good login puts
// the account back in rotation; repeated failures escalate to banned.
func (service *ServiceAccountPool) RetryErrorAccounts(ctx context.Context) (int, error) {
	accounts, err := datastore.GetBoostAccountsByStatus(ctx, service.postgresDB, models.ACCOUNT_STATUS_ERROR)
	if err != nil {
		return 0, err
	}

	recovered := 0
	for _, account := range accounts {
		session, err := service.provider.Validate(ctx, account.Handle, account.CredentialRef)
		ApplyRevalidation(account, session, err)
		if updateErr := datastore.UpdateBoostAccount(ctx, service.postgresDB, account); updateErr != nil {
			log.Printf("account retry: update %d: %v", account.ID, updateErr)
			continue
		}
		if account.Status == models.ACCOUNT_STATUS_ACTIVE {
			recovered++
		}
	}
	return recovered, nil
}

// ApplyRevalidation folds one login attempt into the account's health. Success
// reactivates and clears the streak; each failure counts toward the banned
// escalation.
func ApplyRevalidation(account *models.BoostAccount, session string, err error) {
	if err != nil {
		account.FailStreak++
		if account.FailStreak >= FAIL_STREAK_LIMIT {
			account.Status = models.ACCOUNT_STATUS_BANNED
		}
		return
	}

	account.SessionToken = session
	account.Status = models.ACCOUNT_STATUS_ACTIVE
	account.FailStreak = 0
}

// NextCooldown doubles the base window per consecutive strike, capped.
func NextCooldown(strikes int) time.Duration {
	d := COOLDOWN_BASE
	for i := 0; i < strikes; i++ {
		d *= 2
		if d >= COOLDOWN_CAP {
			return COOLDOWN_CAP
		}
	}
	return d
}

// ClassifyFailure maps a provider error to a failure kind, defaulting to
// transient for anything unclassified.
func ClassifyFailure(err error) string {
	var pe *interfaces.ProviderError
	if errors.As(err, &pe) {
		switch pe.Kind {
		case models.FAILURE_RATE_LIMITED, models.FAILURE_BANNED:
			return pe.Kind
		}
	}
	return models.FAILURE_TRANSIENT
}
