package datastore

import (
	"database/sql"
	"testing"

	"boostpanel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// rendering only, no connection is opened
func testDB() *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN("postgres://localhost:5432/boostpanel?sslmode=disable")))
	return bun.NewDB(sqldb, pgdialect.New())
}

func TestUpsertBoostAccountQuery(t *testing.T) {
	db := testDB()

	account := &models.BoostAccount{
		UserID:        "user-1",
		Handle:        "alice",
		CredentialRef: "vault:alice",
		Status:        models.ACCOUNT_STATUS_ACTIVE,
		DailyLimit:    25,
	}

	query := upsertBoostAccountQuery(db, account).String()

	// a re-register of the same handle must refresh the row, not violate the
	// unique (user_id, handle) index
	assert.Contains(t, query, `ON CONFLICT (user_id, handle) DO UPDATE`)
	assert.Contains(t, query, `credential_ref = EXCLUDED.credential_ref`)
	assert.Contains(t, query, `session_token = EXCLUDED.session_token`)
	assert.Contains(t, query, `status = EXCLUDED.status`)
	assert.Contains(t, query, `daily_limit = EXCLUDED.daily_limit`)
}
