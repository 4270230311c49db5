package datastore

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"boostpanel/internal/models"
)

func CreateTablePost(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Post)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Post)(nil)).Index("index_post_user_id_created_at").IfNotExists().Column("user_id", "created_at").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetPost(ctx context.Context, db *bun.DB, postID string) (*models.Post, error) {
	var post models.Post
	err := db.NewSelect().Model(&post).Where("id = ?", postID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetRecentPublishedPosts returns the rule-evaluation window: published posts
// newer than `since`.
func GetRecentPublishedPosts(ctx context.Context, db *bun.DB, userID string, since time.Time) ([]*models.Post, error) {
	var posts []*models.Post
	err := db.NewSelect().Model(&posts).
		Where("user_id = ?", userID).
		Where("status = ?", models.POST_STATUS_PUBLISHED).
		Where("created_at >= ?", since).
		OrderExpr("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func GetPublishedPosts(ctx context.Context, db *bun.DB, userID string, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := db.NewSelect().Model(&posts).
		Where("user_id = ?", userID).
		Where("status = ?", models.POST_STATUS_PUBLISHED).
		OrderExpr("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func UpdatePostMetrics(ctx context.Context, db *bun.DB, post *models.Post) error {
	_, err := db.NewUpdate().Model(post).Column("metrics").WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}
