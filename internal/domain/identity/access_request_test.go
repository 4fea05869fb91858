package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessRequest(t *testing.T) {
	t.Run("creates pending request with normalized fields", func(t *testing.T) {
		req, err := NewAccessRequest("  New.Hire@Example.COM ", "  New Hire ", "  joining the platform team  ")
		require.NoError(t, err)

		assert.Equal(t, "new.hire@example.com", req.Email)
		assert.Equal(t, "New Hire", req.Name)
		assert.Equal(t, "joining the platform team", req.Reason)
		assert.Equal(t, AccessRequestPending, req.Status)
		assert.NotEqual(t, "", req.ID.String())
	})

	t.Run("reason is optional", func(t *testing.T) {
		req, err := NewAccessRequest("someone@example.com", "Someone", "")
		require.NoError(t, err)
		assert.Equal(t, "", req.Reason)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		for _, email := range []string{"", "   ", "not-an-email", "@example.com", "user@"} {
			_, err := NewAccessRequest(email, "Someone", "")
			assert.Error(t, err, "email %q", email)
		}
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := NewAccessRequest("someone@example.com", "   ", "")
		require.Error(t, err)
	})
}
