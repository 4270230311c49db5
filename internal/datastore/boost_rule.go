package datastore

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"boostpanel/internal/models"
)

func CreateTableBoostConfig(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.BoostConfig)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.BoostRuleMarker)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.BoostRuleMarker)(nil)).Index("index_boost_rule_marker_post_rule").IfNotExists().Unique().Column("post_id", "rule_key").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetBoostConfig(ctx context.Context, db *bun.DB, userID string) (*models.BoostConfig, error) {
	var config models.BoostConfig
	err := db.NewSelect().Model(&config).Where("user_id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func GetEnabledBoostConfigs(ctx context.Context, db *bun.DB) ([]*models.BoostConfig, error) {
	var configs []*models.BoostConfig
	err := db.NewSelect().Model(&configs).Where("enabled = true").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return configs, nil
}

// SaveBoostConfig replaces the user's configuration wholesale.
func SaveBoostConfig(ctx context.Context, db *bun.DB, config *models.BoostConfig) error {
	config.UpdatedAt = time.Now()
	_, err := db.NewInsert().Model(config).
		On("CONFLICT (user_id) DO UPDATE").
		Set("enabled = EXCLUDED.enabled").
		Set("rules = EXCLUDED.rules").
		Set("real_boost_enabled = EXCLUDED.real_boost_enabled").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func GetFiredMarkers(ctx context.Context, db *bun.DB, postIDs []string) ([]*models.BoostRuleMarker, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var markers []*models.BoostRuleMarker
	err := db.NewSelect().Model(&markers).Where("post_id IN (?)", bun.In(postIDs)).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return markers, nil
}

// InsertFiredMarker is idempotent; racing sweeps cannot double-fire a pair.
func InsertFiredMarker(ctx context.Context, db *bun.DB, marker *models.BoostRuleMarker) (bool, error) {
	res, err := db.NewInsert().Model(marker).On("CONFLICT (post_id, rule_key) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}
