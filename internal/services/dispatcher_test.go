package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrantableCount(t *testing.T) {
	t.Run("full balance covers the request", func(t *testing.T) {
		assert.Equal(t, 15, GrantableCount(100, 15))
		assert.Equal(t, 15, GrantableCount(15, 15))
	})

	t.Run("short balance truncates the request", func(t *testing.T) {
		assert.Equal(t, 10, GrantableCount(10, 15))
		assert.Equal(t, 1, GrantableCount(1, 150))
	})

	t.Run("empty balance grants nothing", func(t *testing.T) {
		assert.Equal(t, 0, GrantableCount(0, 15))
		assert.Equal(t, 0, GrantableCount(-5, 15))
	})
}
