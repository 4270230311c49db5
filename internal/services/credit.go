package services

import (
	"context"
	"fmt"

	"boostpanel/internal/datastore"
	"boostpanel/internal/models"
	"boostpanel/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceCredit struct {
	container  *do.Injector
	redisDB    redis.UniversalClient
	rs         *redsync.Redsync
	postgresDB *bun.DB
	cache      caching.Cache
}

func NewServiceCredit(container *do.Injector) (*ServiceCredit, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	return &ServiceCredit{container, db, rs, postgresDB, cache}, nil
}

func (service *ServiceCredit) Balance(ctx context.Context, userID string) (int, error) {
	callback := func() (int, error) {
		return datastore.GetUserBalance(ctx, service.postgresDB, userID)
	}

	return caching.UseCache(ctx, service.cache, DBKeyUserBalance(userID), CACHE_TTL_5_SECONDS, callback)
}

func (service *ServiceCredit) Transactions(ctx context.Context, userID string, limit int) ([]*models.CreditTransaction, error) {
	if limit <= 0 || limit > TRANSACTION_PAGE_LIMIT {
		limit = TRANSACTION_PAGE_LIMIT
	}
	return datastore.GetCreditTransactions(ctx, service.postgresDB, userID, limit)
}

func (service *ServiceCredit) Packages(ctx context.Context) ([]*models.CreditPackage, error) {
	callback := func() ([]*models.CreditPackage, error) {
		return datastore.GetActiveCreditPackages(ctx, service.postgresDB)
	}

	return caching.UseCache(ctx, service.cache, DBKeyCreditPackages(), CACHE_TTL_1_HOUR, callback)
}

// Purchase credits a package's amount in a single ledger entry. Payment
// settlement happens upstream; this only records the grant.
func (service *ServiceCredit) Purchase(ctx context.Context, userID string, packageID int64) (*models.CreditTransaction, error) {
	packages, err := service.Packages(ctx)
	if err != nil {
		return nil, err
	}

	var pack *models.CreditPackage
	for _, p := range packages {
		if p.ID == packageID {
			pack = p
			break
		}
	}
	if pack == nil {
		return nil, errorx.Wrap(fmt.Errorf("package not found: %d", packageID), errorx.NotExist)
	}

	return service.append(ctx, userID, models.CREDIT_TX_PURCHASE, pack.Credits, fmt.Sprintf("purchase %s", pack.Name), fmt.Sprintf("package:%d", packageID))
}

// Grant adds bonus credits outside of a purchase, e.g. promotions.
func (service *ServiceCredit) Grant(ctx context.Context, userID string, amount int, description string) (*models.CreditTransaction, error) {
	if amount <= 0 {
		return nil, errorx.Wrap(fmt.Errorf("invalid grant amount: %d", amount), errorx.Validation)
	}
	return service.append(ctx, userID, models.CREDIT_TX_BONUS, amount, description, "")
}

// Consume deducts exactly `amount` credits, or fails with
// ErrInsufficientCredits and writes nothing. Partial fulfillment is the
// dispatcher's policy; the ledger never truncates a debit.
func (service *ServiceCredit) Consume(ctx context.Context, userID string, amount int, description string, relatedID string) (*models.CreditTransaction, error) {
	if amount <= 0 {
		return nil, errorx.Wrap(fmt.Errorf("invalid consume amount: %d", amount), errorx.Validation)
	}
	return service.append(ctx, userID, models.CREDIT_TX_CONSUME, -amount, description, relatedID)
}

// Refund compensates a consume entry for work that was paid for but never
// performed.
func (service *ServiceCredit) Refund(ctx context.Context, userID string, amount int, description string, relatedID string) (*models.CreditTransaction, error) {
	if amount <= 0 {
		return nil, errorx.Wrap(fmt.Errorf("invalid refund amount: %d", amount), errorx.Validation)
	}
	return service.append(ctx, userID, models.CREDIT_TX_REFUND, amount, description, relatedID)
}

func (service *ServiceCredit) append(ctx context.Context, userID string, txType string, amount int, description string, relatedID string) (*models.CreditTransaction, error) {
	mutex := service.rs.NewMutex(LockKeyUserCredits(userID), redsync.WithTries(5))
	if err := mutex.Lock(); err != nil {
		return nil, errorx.Wrap(ErrUserCreditLock, errorx.Invalid)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	balance, err := datastore.GetUserBalance(ctx, service.postgresDB, userID)
	if err != nil {
		return nil, err
	}

	after, err := ApplyLedger(balance, amount)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Validation)
	}

	tx := &models.CreditTransaction{
		UserID:       userID,
		Type:         txType,
		Amount:       amount,
		BalanceAfter: after,
		Description:  description,
		RelatedID:    relatedID,
	}
	err = datastore.InsertCreditTransaction(ctx, service.postgresDB, tx)
	if err != nil {
		return nil, err
	}

	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyUserBalance(userID))
	return tx, nil
}

// ApplyLedger validates one signed mutation against the current balance and
// returns the balance after it. A debit past the balance is rejected whole;
// the balance never goes negative.
func ApplyLedger(balance int, amount int) (int, error) {
	if amount < 0 && -amount > balance {
		return balance, ErrInsufficientCredits
	}
	return balance + amount, nil
}
