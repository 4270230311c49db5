package datastore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"boostpanel/internal/models"
)

func CreateTableCredit(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.CreditTransaction)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.CreditTransaction)(nil)).Index("index_credit_transaction_user_id_created_at").IfNotExists().Column("user_id", "created_at").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.CreditPackage)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertCreditTransaction(ctx context.Context, db *bun.DB, tx *models.CreditTransaction) error {
	_, err := db.NewInsert().Model(tx).Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

// GetUserBalance derives the balance from the running sum of entries. A user
// with no entries has balance 0.
func GetUserBalance(ctx context.Context, db *bun.DB, userID string) (int, error) {
	var total models.TotalCredits
	err := db.NewSelect().
		ColumnExpr("COALESCE(SUM(amount), 0) AS total").
		ColumnExpr("user_id").
		TableExpr("credit_transaction").
		Where("user_id = ?", userID).
		GroupExpr("user_id").
		Scan(ctx, &total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return total.Total, nil
}

// GetCreditTotalsByType sums the signed amounts per entry type for one user.
func GetCreditTotalsByType(ctx context.Context, db *bun.DB, userID string, txType string) (int, error) {
	var total int
	err := db.NewSelect().
		ColumnExpr("COALESCE(SUM(amount), 0)").
		TableExpr("credit_transaction").
		Where("user_id = ?", userID).
		Where("type = ?", txType).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func GetCreditTransactions(ctx context.Context, db *bun.DB, userID string, limit int) ([]*models.CreditTransaction, error) {
	var txs []*models.CreditTransaction
	err := db.NewSelect().Model(&txs).
		Where("user_id = ?", userID).
		OrderExpr("created_at DESC, id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func GetActiveCreditPackages(ctx context.Context, db *bun.DB) ([]*models.CreditPackage, error) {
	var packages []*models.CreditPackage
	err := db.NewSelect().Model(&packages).Where("active = true").OrderExpr("credits ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return packages, nil
}

func SeedCreditPackages(ctx context.Context, db *bun.DB) error {
	count, err := db.NewSelect().Model((*models.CreditPackage)(nil)).Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	packages := make([]*models.CreditPackage, 0, len(models.DefaultCreditPackages))
	for i := range models.DefaultCreditPackages {
		pkg := models.DefaultCreditPackages[i]
		pkg.Active = true
		packages = append(packages, &pkg)
	}

	_, err = db.NewInsert().Model(&packages).Exec(ctx)
	return err
}
