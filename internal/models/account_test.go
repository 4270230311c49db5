package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBoostAccountAvailable(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("active under the daily limit", func(t *testing.T) {
		account := &BoostAccount{Status: ACCOUNT_STATUS_ACTIVE, DailyLimit: 25, ActionsToday: 24}
		assert.True(t, account.Available(now))
	})

	t.Run("daily limit reached", func(t *testing.T) {
		account := &BoostAccount{Status: ACCOUNT_STATUS_ACTIVE, DailyLimit: 25, ActionsToday: 25}
		assert.False(t, account.Available(now))
	})

	t.Run("banned and error are never available", func(t *testing.T) {
		assert.False(t, (&BoostAccount{Status: ACCOUNT_STATUS_BANNED, DailyLimit: 25}).Available(now))
		assert.False(t, (&BoostAccount{Status: ACCOUNT_STATUS_ERROR, DailyLimit: 25}).Available(now))
	})

	t.Run("cooldown blocks until the window passes", func(t *testing.T) {
		until := now.Add(1 * time.Hour)
		account := &BoostAccount{Status: ACCOUNT_STATUS_COOLDOWN, DailyLimit: 25, CooldownUntil: &until}
		assert.False(t, account.Available(now))

		expired := now.Add(-1 * time.Minute)
		account.CooldownUntil = &expired
		assert.True(t, account.Available(now))
	})

	t.Run("expired cooldown still honors the daily limit", func(t *testing.T) {
		expired := now.Add(-1 * time.Minute)
		account := &BoostAccount{Status: ACCOUNT_STATUS_COOLDOWN, DailyLimit: 10, ActionsToday: 10, CooldownUntil: &expired}
		assert.False(t, account.Available(now))
	})
}
