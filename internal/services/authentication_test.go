package services

import (
	"testing"

	"boostpanel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthentication(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := NewAuthentication("")
		assert.Error(t, err)
	})

	t.Run("round trips a user", func(t *testing.T) {
		authentication, err := NewAuthentication("test-secret")
		require.NoError(t, err)

		token, err := authentication.CreateToken(&models.UserFromAuth{ID: "user-1", Username: "alice", ChatID: 42})
		require.NoError(t, err)

		user, err := authentication.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, int64(42), user.ChatID)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		issuer, err := NewAuthentication("secret-a")
		require.NoError(t, err)
		verifier, err := NewAuthentication("secret-b")
		require.NoError(t, err)

		token, err := issuer.CreateToken(&models.UserFromAuth{ID: "user-1"})
		require.NoError(t, err)

		_, err = verifier.Validate(token)
		assert.Error(t, err)
	})
}
