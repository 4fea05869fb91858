package recognition

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kudos/backend/internal/domain/shared"
)

// WeeklyLimit is the number of points each member may distribute per week.
const WeeklyLimit = 100

// WeekStart returns the canonical start of the week containing t: the most
// recent Monday at local midnight. Sunday belongs to the week that started
// the preceding Monday.
func WeekStart(t time.Time) time.Time {
	diff := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		diff = 6
	}
	monday := t.AddDate(0, 0, -diff)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// WeeklyAllowance is the per-sender, per-week points ledger row.
// Rows are created lazily on the first transfer of a week, only ever
// incremented, and never deleted.
type WeeklyAllowance struct {
	shared.BaseEntity
	UserID    uuid.UUID
	WeekStart time.Time
	TotalSent int
}

// Remaining returns the points still available this week, never negative.
func (a *WeeklyAllowance) Remaining() int {
	if a == nil {
		return WeeklyLimit
	}
	remaining := WeeklyLimit - a.TotalSent
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AllowanceRepository defines the interface for weekly allowance persistence
type AllowanceRepository interface {
	// Find returns the ledger row for (userID, weekStart), or
	// shared.ErrNotFound when no transfer happened that week yet.
	Find(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*WeeklyAllowance, error)

	// Record applies a point delta for (userID, weekStart) as a single
	// atomic create-or-increment. The weekly ceiling is enforced by the
	// store; exceeding it returns shared.ErrInsufficientAllowance.
	// When tx is non-nil the write joins that transaction.
	Record(ctx context.Context, tx interface{}, userID uuid.UUID, weekStart time.Time, delta int) error
}
