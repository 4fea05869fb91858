package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kudos/backend/internal/domain/recognition"
	"github.com/kudos/backend/internal/domain/shared"
	"github.com/kudos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPostRepository implements PostRepository using GORM
type GormPostRepository struct {
	db          *gorm.DB
	allowances  recognition.AllowanceRepository
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB, allowances recognition.AllowanceRepository) *GormPostRepository {
	return &GormPostRepository{db: db, allowances: allowances}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormPostRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// Create persists the post, the sender's ledger increment, and the post's
// domain events in a single transaction. If the ledger increment would
// exceed the weekly ceiling the whole transaction rolls back and
// shared.ErrInsufficientAllowance is returned.
func (r *GormPostRepository) Create(ctx context.Context, post *recognition.Post) error {
	events := post.GetDomainEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		weekStart := recognition.WeekStart(post.CreatedAt)
		if err := r.allowances.Record(ctx, tx, post.SenderID, weekStart, post.Points); err != nil {
			return err
		}

		model := models.PostModelFromDomain(post)
		if err := tx.Create(model).Error; err != nil {
			return err
		}

		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	post.ClearDomainEvents()
	return nil
}

// FindByID finds a post by ID
func (r *GormPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*recognition.Post, error) {
	var model models.PostModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the posts for the given IDs
func (r *GormPostRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*recognition.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var postModels []models.PostModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&postModels).Error; err != nil {
		return nil, err
	}
	return toPosts(postModels), nil
}

// FindRecent returns the most recent posts, newest first
func (r *GormPostRepository) FindRecent(ctx context.Context, limit int) ([]*recognition.Post, error) {
	var postModels []models.PostModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&postModels).Error; err != nil {
		return nil, err
	}
	return toPosts(postModels), nil
}

// FindInWindow returns all posts created within [from, until] inclusive
func (r *GormPostRepository) FindInWindow(ctx context.Context, from, until time.Time) ([]*recognition.Post, error) {
	var postModels []models.PostModel
	if err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", from, until).
		Order("created_at ASC").
		Find(&postModels).Error; err != nil {
		return nil, err
	}
	return toPosts(postModels), nil
}

func toPosts(postModels []models.PostModel) []*recognition.Post {
	posts := make([]*recognition.Post, len(postModels))
	for i := range postModels {
		posts[i] = postModels[i].ToDomain()
	}
	return posts
}

var _ recognition.PostRepository = (*GormPostRepository)(nil)
