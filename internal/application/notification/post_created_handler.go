package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/kudos/backend/internal/domain/identity"
	"github.com/kudos/backend/internal/domain/notification"
	"github.com/kudos/backend/internal/domain/recognition"
	"github.com/kudos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PostCreatedHandler fans a committed post out to the recipient: it
// writes the durable notification row and pushes to any open live
// streams. The row insert is idempotent, so outbox redelivery cannot
// duplicate a notification.
type PostCreatedHandler struct {
	notificationRepo notification.Repository
	profileRepo      identity.ProfileRepository
	broadcaster      *Broadcaster
	logger           *zap.Logger
}

// NewPostCreatedHandler creates a new fan-out handler
func NewPostCreatedHandler(
	notificationRepo notification.Repository,
	profileRepo identity.ProfileRepository,
	broadcaster *Broadcaster,
	logger *zap.Logger,
) *PostCreatedHandler {
	return &PostCreatedHandler{
		notificationRepo: notificationRepo,
		profileRepo:      profileRepo,
		broadcaster:      broadcaster,
		logger:           logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *PostCreatedHandler) EventTypes() []string {
	return []string{recognition.EventTypePostCreated}
}

// Handle writes the recipient's notification row and pushes to open streams
func (h *PostCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*recognition.PostCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	n := notification.New(created.RecipientID, created.AggregateID())
	if err := h.notificationRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	dto := NotificationDTO{
		ID:        n.ID,
		PostID:    n.PostID,
		Message:   created.Message,
		Points:    created.Points,
		CreatedAt: n.CreatedAt,
	}
	if sender, err := h.profileRepo.FindByID(ctx, created.SenderID); err == nil {
		dto.Sender = SenderSummary{
			ID:          sender.ID,
			DisplayName: sender.DisplayName,
			AvatarURL:   sender.AvatarURL,
		}
	} else if !errors.Is(err, shared.ErrNotFound) {
		h.logger.Warn("failed to load sender for push", zap.Error(err))
	}

	h.broadcaster.Publish(created.RecipientID, dto)

	h.logger.Debug("notification fanned out",
		zap.String("post_id", created.AggregateID().String()),
		zap.String("recipient_id", created.RecipientID.String()),
	)
	return nil
}

var _ shared.EventHandler = (*PostCreatedHandler)(nil)
