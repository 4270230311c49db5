package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyLedger(t *testing.T) {
	t.Run("credits accumulate", func(t *testing.T) {
		after, err := ApplyLedger(0, 100)
		require.NoError(t, err)
		assert.Equal(t, 100, after)
	})

	t.Run("debit within balance", func(t *testing.T) {
		after, err := ApplyLedger(100, -40)
		require.NoError(t, err)
		assert.Equal(t, 60, after)
	})

	t.Run("debit of the exact balance drains it", func(t *testing.T) {
		after, err := ApplyLedger(10, -10)
		require.NoError(t, err)
		assert.Equal(t, 0, after)
	})

	t.Run("over-balance debit is rejected whole", func(t *testing.T) {
		after, err := ApplyLedger(10, -15)
		require.ErrorIs(t, err, ErrInsufficientCredits)
		assert.Equal(t, 10, after)
	})

	t.Run("zero balance rejects any debit", func(t *testing.T) {
		_, err := ApplyLedger(0, -1)
		assert.ErrorIs(t, err, ErrInsufficientCredits)
	})

	t.Run("balance is always the sum of applied amounts and never negative", func(t *testing.T) {
		amounts := []int{100, -40, -60, -5, 500, -500, -1, 25}

		balance := 0
		sum := 0
		for _, amount := range amounts {
			after, err := ApplyLedger(balance, amount)
			if err != nil {
				require.ErrorIs(t, err, ErrInsufficientCredits)
				assert.Equal(t, balance, after)
				continue
			}
			balance = after
			sum += amount
			assert.Equal(t, sum, balance)
			assert.GreaterOrEqual(t, balance, 0)
		}
	})
}
