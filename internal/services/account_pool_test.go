package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"boostpanel/internal/interfaces"
	"boostpanel/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNextCooldown(t *testing.T) {
	assert.Equal(t, 4*time.Hour, NextCooldown(0))
	assert.Equal(t, 8*time.Hour, NextCooldown(1))
	assert.Equal(t, 16*time.Hour, NextCooldown(2))
	assert.Equal(t, 32*time.Hour, NextCooldown(3))
	assert.Equal(t, 48*time.Hour, NextCooldown(4))
	assert.Equal(t, 48*time.Hour, NextCooldown(10))
}

func TestNormalizeDailyLimit(t *testing.T) {
	assert.Equal(t, DEFAULT_DAILY_ACTION_LIMIT, NormalizeDailyLimit(0))
	assert.Equal(t, DEFAULT_DAILY_ACTION_LIMIT, NormalizeDailyLimit(-3))
	assert.Equal(t, 50, NormalizeDailyLimit(50))
}

func TestApplyRevalidation(t *testing.T) {
	t.Run("success reactivates and clears the streak", func(t *testing.T) {
		account := &models.BoostAccount{Status: models.ACCOUNT_STATUS_ERROR, FailStreak: 2}
		ApplyRevalidation(account, "token-1", nil)

		assert.Equal(t, models.ACCOUNT_STATUS_ACTIVE, account.Status)
		assert.Equal(t, "token-1", account.SessionToken)
		assert.Equal(t, 0, account.FailStreak)
	})

	t.Run("repeated failures escalate to banned", func(t *testing.T) {
		account := &models.BoostAccount{Status: models.ACCOUNT_STATUS_ERROR, FailStreak: 1}

		ApplyRevalidation(account, "", errors.New("login failed"))
		assert.Equal(t, models.ACCOUNT_STATUS_ERROR, account.Status)
		assert.Equal(t, 2, account.FailStreak)

		ApplyRevalidation(account, "", errors.New("login failed"))
		assert.Equal(t, models.ACCOUNT_STATUS_BANNED, account.Status)
		assert.Equal(t, 3, account.FailStreak)
	})
}

func TestClassifyFailure(t *testing.T) {
	t.Run("provider kinds pass through", func(t *testing.T) {
		err := &interfaces.ProviderError{Kind: models.FAILURE_RATE_LIMITED, Err: errors.New("429")}
		assert.Equal(t, models.FAILURE_RATE_LIMITED, ClassifyFailure(err))

		err = &interfaces.ProviderError{Kind: models.FAILURE_BANNED, Err: errors.New("403")}
		assert.Equal(t, models.FAILURE_BANNED, ClassifyFailure(err))
	})

	t.Run("wrapped provider errors are still classified", func(t *testing.T) {
		inner := &interfaces.ProviderError{Kind: models.FAILURE_BANNED, Err: errors.New("403")}
		assert.Equal(t, models.FAILURE_BANNED, ClassifyFailure(fmt.Errorf("perform action: %w", inner)))
	})

	t.Run("everything else is transient", func(t *testing.T) {
		assert.Equal(t, models.FAILURE_TRANSIENT, ClassifyFailure(errors.New("connection reset")))
		assert.Equal(t, models.FAILURE_TRANSIENT, ClassifyFailure(&interfaces.ProviderError{Kind: models.FAILURE_TRANSIENT, Err: errors.New("502")}))
		assert.Equal(t, models.FAILURE_TRANSIENT, ClassifyFailure(&interfaces.ProviderError{Kind: "unknown", Err: errors.New("weird")}))
	})
}
