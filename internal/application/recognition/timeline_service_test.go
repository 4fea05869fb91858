package recognition

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTimelineService_ListRecent(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	svc := NewTimelineService(env.postRepo, env.profileRepo, zap.NewNop())

	sender := env.createProfile(t, "sender@example.com")
	recipient := env.createProfile(t, "recipient@example.com")

	base := time.Now().Add(-time.Hour)
	createPostAt(t, env, sender.ID, recipient.ID, 10, base)
	createPostAt(t, env, recipient.ID, sender.ID, 20, base.Add(time.Minute))

	t.Run("newest first with profile summaries attached", func(t *testing.T) {
		items, err := svc.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, 20, items[0].Points)
		assert.Equal(t, "recipient", items[0].Sender.DisplayName)
		assert.Equal(t, "sender", items[0].Recipient.DisplayName)
		assert.Equal(t, 10, items[1].Points)
	})

	t.Run("zero limit falls back to the default", func(t *testing.T) {
		items, err := svc.ListRecent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("limit truncates", func(t *testing.T) {
		items, err := svc.ListRecent(ctx, 1)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 20, items[0].Points)
	})
}
