package datastore

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"boostpanel/internal/models"
)

func CreateTableCampaign(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Campaign)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Campaign)(nil)).Index("index_campaign_user_id_status").IfNotExists().Column("user_id", "status").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Campaign)(nil)).Index("index_campaign_status").IfNotExists().Column("status").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertCampaign(ctx context.Context, db *bun.DB, campaign *models.Campaign) error {
	_, err := db.NewInsert().Model(campaign).Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func GetCampaign(ctx context.Context, db *bun.DB, userID string, campaignID int64) (*models.Campaign, error) {
	var campaign models.Campaign
	err := db.NewSelect().Model(&campaign).Where("id = ?", campaignID).Where("user_id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func GetCampaigns(ctx context.Context, db *bun.DB, userID string, status string, limit int) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	query := db.NewSelect().Model(&campaigns).Where("user_id = ?", userID).OrderExpr("created_at DESC").Limit(limit)
	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}
	err := query.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

func GetCampaignsByStatus(ctx context.Context, db *bun.DB, status string, limit int) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	err := db.NewSelect().Model(&campaigns).Where("status = ?", status).OrderExpr("created_at ASC").Limit(limit).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

func GetExpiredActiveCampaigns(ctx context.Context, db *bun.DB, now time.Time) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	err := db.NewSelect().Model(&campaigns).
		Where("status = ?", models.CAMPAIGN_STATUS_ACTIVE).
		Where("end_date <= ?", now).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

func UpdateCampaign(ctx context.Context, db *bun.DB, campaign *models.Campaign) error {
	_, err := db.NewUpdate().Model(campaign).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}
