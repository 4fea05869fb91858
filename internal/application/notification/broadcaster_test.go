package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBroadcaster(t *testing.T) {
	userID := uuid.New()

	t.Run("delivers to every open stream of the user", func(t *testing.T) {
		b := NewBroadcaster(zap.NewNop())
		first, cancelFirst := b.Subscribe(userID)
		second, cancelSecond := b.Subscribe(userID)
		defer cancelFirst()
		defer cancelSecond()

		dto := NotificationDTO{ID: uuid.New(), Points: 10}
		b.Publish(userID, dto)

		assert.Equal(t, dto.ID, (<-first).ID)
		assert.Equal(t, dto.ID, (<-second).ID)
	})

	t.Run("other users receive nothing", func(t *testing.T) {
		b := NewBroadcaster(zap.NewNop())
		ch, cancel := b.Subscribe(userID)
		defer cancel()

		b.Publish(uuid.New(), NotificationDTO{ID: uuid.New()})
		assert.Empty(t, ch)
	})

	t.Run("cancel closes and removes the stream", func(t *testing.T) {
		b := NewBroadcaster(zap.NewNop())
		ch, cancel := b.Subscribe(userID)
		require.Equal(t, 1, b.SubscriberCount(userID))

		cancel()
		assert.Equal(t, 0, b.SubscriberCount(userID))

		_, open := <-ch
		assert.False(t, open)
	})

	t.Run("a full stream is skipped instead of blocking", func(t *testing.T) {
		b := NewBroadcaster(zap.NewNop())
		ch, cancel := b.Subscribe(userID)
		defer cancel()

		// one more than the stream buffer; the overflow must not block
		for i := 0; i < cap(ch)+1; i++ {
			b.Publish(userID, NotificationDTO{ID: uuid.New()})
		}
		assert.Len(t, ch, cap(ch))
	})
}
