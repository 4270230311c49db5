package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandBetween(t *testing.T) {
	for i := 0; i < 200; i++ {
		n := RandBetween(10, 20)
		require.GreaterOrEqual(t, n, 10)
		require.LessOrEqual(t, n, 20)
	}

	assert.Equal(t, 5, RandBetween(5, 5))
	assert.Equal(t, 5, RandBetween(5, 3))
}

func TestRandDuration(t *testing.T) {
	for i := 0; i < 200; i++ {
		d := RandDuration(5*time.Second, 12*time.Second)
		require.GreaterOrEqual(t, d, 5*time.Second)
		require.Less(t, d, 12*time.Second)
	}

	assert.Equal(t, time.Second, RandDuration(time.Second, time.Second))
}
