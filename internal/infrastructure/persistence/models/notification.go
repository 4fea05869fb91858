package models

import (
	"github.com/google/uuid"
	"github.com/kudos/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for notifications.
// The unique index on post_id guarantees at most one notification per
// post even when the fan-out handler runs more than once.
type NotificationModel struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	PostID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	IsRead bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		PostID:     m.PostID,
		IsRead:     m.IsRead,
	}
}

// NotificationModelFromDomain builds a persistence model from a domain Notification
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{
		UserID: n.UserID,
		PostID: n.PostID,
		IsRead: n.IsRead,
	}
	m.FromDomainBaseEntity(n.BaseEntity)
	return m
}
