package datastore

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"boostpanel/internal/models"
)

func CreateTableBoostAccount(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.BoostAccount)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.BoostAccount)(nil)).Index("index_boost_account_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.BoostAccount)(nil)).Index("index_boost_account_status_last_action").IfNotExists().Column("status", "last_action_at").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.BoostAccount)(nil)).Index("index_boost_account_user_id_handle").IfNotExists().Unique().Column("user_id", "handle").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertBoostAccount(ctx context.Context, db *bun.DB, account *models.BoostAccount) error {
	_, err := db.NewInsert().Model(account).Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

// UpsertBoostAccount inserts the account or, when the (user, handle) pair
// already exists, refreshes its credential, session, status and quota in place.
func UpsertBoostAccount(ctx context.Context, db *bun.DB, account *models.BoostAccount) error {
	_, err := upsertBoostAccountQuery(db, account).Exec(ctx)
	return err
}

func upsertBoostAccountQuery(db *bun.DB, account *models.BoostAccount) *bun.InsertQuery {
	return db.NewInsert().Model(account).
		On("CONFLICT (user_id, handle) DO UPDATE").
		Set("credential_ref = EXCLUDED.credential_ref").
		Set("session_token = EXCLUDED.session_token").
		Set("status = EXCLUDED.status").
		Set("daily_limit = EXCLUDED.daily_limit").
		Returning("*")
}

func GetBoostAccountsByStatus(ctx context.Context, db *bun.DB, status string) ([]*models.BoostAccount, error) {
	var accounts []*models.BoostAccount
	err := db.NewSelect().Model(&accounts).Where("status = ?", status).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func GetBoostAccount(ctx context.Context, db *bun.DB, userID string, accountID int64) (*models.BoostAccount, error) {
	var account models.BoostAccount
	err := db.NewSelect().Model(&account).Where("id = ?", accountID).Where("user_id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func GetBoostAccountByID(ctx context.Context, db *bun.DB, accountID int64) (*models.BoostAccount, error) {
	var account models.BoostAccount
	err := db.NewSelect().Model(&account).Where("id = ?", accountID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func GetBoostAccounts(ctx context.Context, db *bun.DB, userID string) ([]*models.BoostAccount, error) {
	var accounts []*models.BoostAccount
	err := db.NewSelect().Model(&accounts).Where("user_id = ?", userID).OrderExpr("created_at DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetEligibleBoostAccounts returns up to limit accounts able to act right now,
// least recently used first. Cooldowns that already expired are included;
// their status is fixed up by the recovery sweep.
func GetEligibleBoostAccounts(ctx context.Context, db *bun.DB, userID string, limit int, excluding []int64) ([]*models.BoostAccount, error) {
	now := time.Now()
	var accounts []*models.BoostAccount
	query := db.NewSelect().Model(&accounts).
		Where("user_id = ?", userID).
		Where("actions_today < daily_limit").
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("status = ?", models.ACCOUNT_STATUS_ACTIVE).
				WhereOr("status = ? AND cooldown_until <= ?", models.ACCOUNT_STATUS_COOLDOWN, now)
		}).
		OrderExpr("last_action_at ASC NULLS FIRST").
		Limit(limit)

	if len(excluding) > 0 {
		query = query.Where("id NOT IN (?)", bun.In(excluding))
	}

	err := query.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func UpdateBoostAccount(ctx context.Context, db *bun.DB, account *models.BoostAccount) error {
	_, err := db.NewUpdate().Model(account).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func DeleteBoostAccount(ctx context.Context, db *bun.DB, userID string, accountID int64) (int64, error) {
	res, err := db.NewDelete().Model((*models.BoostAccount)(nil)).Where("id = ?", accountID).Where("user_id = ?", userID).Exec(ctx)
	if err != nil {
		return 0, err
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

// ResetDailyCounters zeroes actions_today for every account whose last reset
// happened on a previous date. Comparing stored dates instead of running
// per-account timers keeps resets correct across restarts.
func ResetDailyCounters(ctx context.Context, db *bun.DB, now time.Time) (int64, error) {
	res, err := db.NewUpdate().Model((*models.BoostAccount)(nil)).
		Set("actions_today = 0").
		Set("last_reset_date = ?", now).
		Where("date(last_reset_date) < date(?)", now).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

// RecoverExpiredCooldowns flips cooldown accounts whose window passed back to
// active. Banned accounts are never touched here.
func RecoverExpiredCooldowns(ctx context.Context, db *bun.DB, now time.Time) (int64, error) {
	res, err := db.NewUpdate().Model((*models.BoostAccount)(nil)).
		Set("status = ?", models.ACCOUNT_STATUS_ACTIVE).
		Set("cooldown_until = NULL").
		Where("status = ?", models.ACCOUNT_STATUS_COOLDOWN).
		Where("cooldown_until <= ?", now).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}
