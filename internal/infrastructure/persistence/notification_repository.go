package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kudos/backend/internal/domain/notification"
	"github.com/kudos/backend/internal/domain/shared"
	"github.com/kudos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create inserts the notification. A second insert for the same post hits
// the unique index on post_id and is skipped, making event fan-out
// idempotent under redelivery; in that case n is loaded from the existing
// row so callers always hold the persisted identity.
func (r *GormNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	model := models.NotificationModelFromDomain(n)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Redelivery: the first delivery's row already exists. Hand its
	// identity back to the caller, not the one generated for this attempt.
	var existing models.NotificationModel
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", n.PostID).
		First(&existing).Error; err != nil {
		return err
	}
	n.ID = existing.ID
	n.UserID = existing.UserID
	n.IsRead = existing.IsRead
	n.CreatedAt = existing.CreatedAt
	n.UpdatedAt = existing.UpdatedAt
	return nil
}

// FindByUser returns the recipient's notifications, newest first
func (r *GormNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*notification.Notification, error) {
	var notificationModels []models.NotificationModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notificationModels).Error; err != nil {
		return nil, err
	}

	notifications := make([]*notification.Notification, len(notificationModels))
	for i := range notificationModels {
		notifications[i] = notificationModels[i].ToDomain()
	}
	return notifications, nil
}

// FindNewestUnread returns the most recent unread notification for the user
func (r *GormNotificationRepository) FindNewestUnread(ctx context.Context, userID uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CountUnread returns the number of unread notifications for the user
func (r *GormNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead sets the read flag on one notification owned by the user.
// Returns shared.ErrNotFound when the notification does not exist or
// belongs to someone else; marking an already-read notification succeeds.
func (r *GormNotificationRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{
			"is_read":    true,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkAllRead sets the read flag on every unread notification owned by the user
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read":    true,
			"updated_at": time.Now(),
		}).Error
}

var _ notification.Repository = (*GormNotificationRepository)(nil)
