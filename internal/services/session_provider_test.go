package services

import (
	"errors"
	"net/http"
	"testing"

	"boostpanel/internal/interfaces"
	"boostpanel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		status int
		kind   string
	}{
		{http.StatusTooManyRequests, models.FAILURE_RATE_LIMITED},
		{http.StatusUnauthorized, models.FAILURE_BANNED},
		{http.StatusForbidden, models.FAILURE_BANNED},
		{http.StatusInternalServerError, models.FAILURE_TRANSIENT},
		{http.StatusBadGateway, models.FAILURE_TRANSIENT},
		{http.StatusNotFound, models.FAILURE_TRANSIENT},
	}

	for _, c := range cases {
		err := classifyStatus(c.status, []byte("nope"))
		require.Error(t, err)

		var pe *interfaces.ProviderError
		require.True(t, errors.As(err, &pe), "status %d", c.status)
		assert.Equal(t, c.kind, pe.Kind, "status %d", c.status)
	}
}
