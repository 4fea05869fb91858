package notification

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Broadcaster fans notification DTOs out to live per-user streams.
// Slow subscribers are skipped rather than blocking delivery; the client
// falls back to polling, so a dropped push is not lost information.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[chan NotificationDTO]struct{}
	logger      *zap.Logger
}

// NewBroadcaster creates a new broadcaster
func NewBroadcaster(logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uuid.UUID]map[chan NotificationDTO]struct{}),
		logger:      logger,
	}
}

// Subscribe opens a stream for the user. The returned cancel func must be
// called when the client disconnects.
func (b *Broadcaster) Subscribe(userID uuid.UUID) (<-chan NotificationDTO, func()) {
	ch := make(chan NotificationDTO, 8)

	b.mu.Lock()
	if b.subscribers[userID] == nil {
		b.subscribers[userID] = make(map[chan NotificationDTO]struct{})
	}
	b.subscribers[userID][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if subs, ok := b.subscribers[userID]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(b.subscribers, userID)
			}
		}
		b.mu.Unlock()
		close(ch)
	}
	return ch, cancel
}

// Publish delivers a notification to every open stream of the user
func (b *Broadcaster) Publish(userID uuid.UUID, dto NotificationDTO) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers[userID] {
		select {
		case ch <- dto:
		default:
			b.logger.Debug("dropping push to slow notification stream",
				zap.String("user_id", userID.String()),
			)
		}
	}
}

// SubscriberCount returns the number of open streams for the user
func (b *Broadcaster) SubscriberCount(userID uuid.UUID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[userID])
}
