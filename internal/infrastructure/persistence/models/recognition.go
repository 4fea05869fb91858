package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/kudos/backend/internal/domain/recognition"
	"github.com/kudos/backend/internal/domain/shared"
)

// PostModel is the persistence model for the Post aggregate.
type PostModel struct {
	BaseModel
	SenderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index"`
	Message     string    `gorm:"type:text;not null"`
	Points      int       `gorm:"not null;check:points >= 1 AND points <= 100"`
}

// TableName returns the table name for GORM
func (PostModel) TableName() string {
	return "posts"
}

// ToDomain converts the persistence model to a domain Post
func (m *PostModel) ToDomain() *recognition.Post {
	return &recognition.Post{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: m.BaseModel.ToDomain(),
		},
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Message:     m.Message,
		Points:      m.Points,
	}
}

// PostModelFromDomain builds a persistence model from a domain Post
func PostModelFromDomain(p *recognition.Post) *PostModel {
	m := &PostModel{
		SenderID:    p.SenderID,
		RecipientID: p.RecipientID,
		Message:     p.Message,
		Points:      p.Points,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// WeeklyAllowanceModel is the per-sender, per-week points ledger row.
// The check constraint is the final authority on the weekly ceiling:
// a concurrent increment that would push total_sent past the limit
// fails at the database regardless of what the application saw.
type WeeklyAllowanceModel struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_weekly_points_user_week"`
	WeekStart time.Time `gorm:"not null;uniqueIndex:idx_weekly_points_user_week"`
	TotalSent int       `gorm:"not null;default:0;check:total_sent >= 0 AND total_sent <= 100"`
}

// TableName returns the table name for GORM
func (WeeklyAllowanceModel) TableName() string {
	return "weekly_points"
}

// ToDomain converts the persistence model to a domain WeeklyAllowance
func (m *WeeklyAllowanceModel) ToDomain() *recognition.WeeklyAllowance {
	return &recognition.WeeklyAllowance{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		WeekStart:  m.WeekStart,
		TotalSent:  m.TotalSent,
	}
}
