package datastore

import (
	"context"

	"github.com/uptrace/bun"

	"boostpanel/internal/models"
)

func CreateTableBoostedPost(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.BoostedPost)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.BoostedPost)(nil)).Index("index_boosted_post_user_id_status").IfNotExists().Column("user_id", "status").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.BoostedPost)(nil)).Index("index_boosted_post_post_id").IfNotExists().Column("post_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertBoostedPost(ctx context.Context, db *bun.DB, record *models.BoostedPost) error {
	_, err := db.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func GetBoostedPost(ctx context.Context, db *bun.DB, userID string, postID string) (*models.BoostedPost, error) {
	var record models.BoostedPost
	err := db.NewSelect().Model(&record).
		Where("user_id = ?", userID).
		Where("post_id = ?", postID).
		OrderExpr("boost_started DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func GetBoostedPostByID(ctx context.Context, db *bun.DB, id int64) (*models.BoostedPost, error) {
	var record models.BoostedPost
	err := db.NewSelect().Model(&record).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func GetBoostedPosts(ctx context.Context, db *bun.DB, userID string, limit int) ([]*models.BoostedPost, error) {
	var records []*models.BoostedPost
	err := db.NewSelect().Model(&records).
		Where("user_id = ?", userID).
		OrderExpr("boost_started DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetBoostAnalytics aggregates the user's whole boost history in one query.
func GetBoostAnalytics(ctx context.Context, db *bun.DB, userID string) (*models.BoostAnalytics, error) {
	var analytics models.BoostAnalytics
	err := db.NewSelect().
		Model((*models.BoostedPost)(nil)).
		ColumnExpr("COUNT(*) AS total_boosts").
		ColumnExpr("COUNT(*) FILTER (WHERE status = ?) AS completed", models.BOOST_STATUS_COMPLETED).
		ColumnExpr("COUNT(*) FILTER (WHERE status = ?) AS failed", models.BOOST_STATUS_FAILED).
		ColumnExpr("COUNT(*) FILTER (WHERE status = ?) AS in_progress", models.BOOST_STATUS_IN_PROGRESS).
		ColumnExpr("COALESCE(SUM((metrics->>'likes_added')::int), 0) AS likes_added").
		ColumnExpr("COALESCE(SUM((metrics->>'comments_added')::int), 0) AS comments_added").
		ColumnExpr("COALESCE(SUM((metrics->>'shares_added')::int), 0) AS shares_added").
		ColumnExpr("COALESCE(SUM(remainder), 0) AS unfulfilled").
		Where("user_id = ?", userID).
		Scan(ctx, &analytics)
	if err != nil {
		return nil, err
	}
	return &analytics, nil
}

func UpdateBoostedPost(ctx context.Context, db *bun.DB, record *models.BoostedPost) error {
	_, err := db.NewUpdate().Model(record).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}
