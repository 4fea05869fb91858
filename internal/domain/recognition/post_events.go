package recognition

import (
	"github.com/google/uuid"
	"github.com/kudos/backend/internal/domain/shared"
)

// Aggregate type constant for Post
const AggregateTypePost = "Post"

// Post domain event types
const (
	EventTypePostCreated = "PostCreated"
)

// PostCreatedEvent is published when a thanks post is created. The
// notification fan-out and the live stream broadcaster subscribe to it.
type PostCreatedEvent struct {
	shared.BaseDomainEvent
	SenderID    uuid.UUID `json:"sender_id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Message     string    `json:"message"`
	Points      int       `json:"points"`
}

// NewPostCreatedEvent creates a new PostCreatedEvent
func NewPostCreatedEvent(post *Post) *PostCreatedEvent {
	return &PostCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePostCreated, AggregateTypePost, post.ID),
		SenderID:        post.SenderID,
		RecipientID:     post.RecipientID,
		Message:         post.Message,
		Points:          post.Points,
	}
}
