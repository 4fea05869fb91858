package notification

import (
	"time"

	"github.com/google/uuid"
)

// SenderSummary identifies the sender of the post behind a notification
type SenderSummary struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
}

// NotificationDTO is one notification enriched with its post
type NotificationDTO struct {
	ID        uuid.UUID     `json:"id"`
	PostID    uuid.UUID     `json:"post_id"`
	Sender    SenderSummary `json:"sender"`
	Message   string        `json:"message"`
	Points    int           `json:"points"`
	IsRead    bool          `json:"is_read"`
	CreatedAt time.Time     `json:"created_at"`
}

// UnreadStatus is the polling payload: the count plus the newest unread
// notification ID so the client can dedup desktop pushes.
type UnreadStatus struct {
	Count    int64      `json:"count"`
	NewestID *uuid.UUID `json:"newest_id,omitempty"`
}
