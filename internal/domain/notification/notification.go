package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/kudos/backend/internal/domain/shared"
)

// Notification is the durable per-recipient record of a thanks post.
// Exactly one exists per post, owned by the recipient; the only mutation
// is flipping the read flag to true.
type Notification struct {
	shared.BaseEntity
	UserID uuid.UUID
	PostID uuid.UUID
	IsRead bool
}

// New creates an unread notification for the recipient of a post
func New(userID, postID uuid.UUID) *Notification {
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		PostID:     postID,
	}
}

// MarkRead flips the read flag. Re-marking an already-read notification
// is a no-op.
func (n *Notification) MarkRead() {
	n.IsRead = true
}

// Repository defines the interface for notification persistence
type Repository interface {
	// Create inserts the notification. Inserting again for the same post
	// keeps the first row and loads it into n, which makes fan-out
	// idempotent under event redelivery.
	Create(ctx context.Context, n *Notification) error

	// FindByUser returns the recipient's notifications, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Notification, error)

	// FindNewestUnread returns the most recent unread notification for
	// the user, or shared.ErrNotFound when everything is read.
	FindNewestUnread(ctx context.Context, userID uuid.UUID) (*Notification, error)

	// CountUnread returns the number of unread notifications for the user
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)

	// MarkRead sets the read flag on one notification owned by the user
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error

	// MarkAllRead sets the read flag on every unread notification owned
	// by the user in one batch
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}
