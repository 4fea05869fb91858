package recognition

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kudos/backend/internal/domain/shared"
)

// Point value bounds for a single post
const (
	MinPoints = 1
	MaxPoints = 100
)

// Post is a thanks message carrying points from sender to recipient.
// Posts are immutable append-only facts: there is no edit or delete.
type Post struct {
	shared.BaseAggregateRoot
	SenderID    uuid.UUID
	RecipientID uuid.UUID
	Message     string
	Points      int
}

// NewPost validates and creates a thanks post. Validation follows the
// order the send form applies: presence, point range, then identity.
func NewPost(senderID, recipientID uuid.UUID, message string, points int) (*Post, error) {
	message = strings.TrimSpace(message)
	if senderID == uuid.Nil || recipientID == uuid.Nil || message == "" || points == 0 {
		return nil, shared.NewDomainError("MISSING_FIELD", "All fields are required")
	}
	if points < MinPoints || points > MaxPoints {
		return nil, shared.NewDomainError("POINTS_OUT_OF_RANGE", "Points must be between 1 and 100")
	}
	if senderID == recipientID {
		return nil, shared.NewDomainError("SELF_THANKS", "You cannot send thanks to yourself")
	}
	if len(message) > 1000 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Message cannot exceed 1000 characters")
	}

	post := &Post{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SenderID:          senderID,
		RecipientID:       recipientID,
		Message:           message,
		Points:            points,
	}
	post.AddDomainEvent(NewPostCreatedEvent(post))

	return post, nil
}

// PostFilter contains query options for timeline reads
type PostFilter struct {
	Limit int
	Since *time.Time
	Until *time.Time
}

// PostRepository defines the interface for post persistence
type PostRepository interface {
	// Create persists a post together with the sender's ledger increment
	// for the post's week in a single transaction. Exceeding the weekly
	// ceiling returns shared.ErrInsufficientAllowance and nothing is
	// persisted.
	Create(ctx context.Context, post *Post) error

	// FindByID finds a post by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// FindByIDs returns the posts for the given IDs; missing IDs are
	// silently skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Post, error)

	// FindRecent returns the most recent posts system-wide, newest first
	FindRecent(ctx context.Context, limit int) ([]*Post, error)

	// FindInWindow returns all posts created within [from, until] inclusive
	FindInWindow(ctx context.Context, from, until time.Time) ([]*Post, error)
}
