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
	"gorm.io/gorm/clause"
)

// GormAllowanceRepository implements AllowanceRepository using GORM
type GormAllowanceRepository struct {
	db *gorm.DB
}

// NewGormAllowanceRepository creates a new GormAllowanceRepository
func NewGormAllowanceRepository(db *gorm.DB) *GormAllowanceRepository {
	return &GormAllowanceRepository{db: db}
}

// Find returns the ledger row for (userID, weekStart)
func (r *GormAllowanceRepository) Find(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*recognition.WeeklyAllowance, error) {
	var model models.WeeklyAllowanceModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND week_start = ?", userID, weekStart).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Record applies a point delta as one INSERT ... ON CONFLICT DO UPDATE
// increment on (user_id, week_start). It must stay a single statement:
// Record runs inside the transaction that creates the post, and a failed
// INSERT there would abort the whole transaction on Postgres, leaving any
// follow-up recovery statement unusable. The check constraint on
// total_sent turns an over-spend into ErrInsufficientAllowance with no
// partial write.
func (r *GormAllowanceRepository) Record(ctx context.Context, tx interface{}, userID uuid.UUID, weekStart time.Time, delta int) error {
	db := r.db
	if tx != nil {
		gormTx, ok := tx.(*gorm.DB)
		if !ok {
			return fmt.Errorf("tx must be a *gorm.DB, got %T", tx)
		}
		db = gormTx
	}

	if delta <= 0 {
		return shared.ErrInvalidInput
	}

	now := time.Now()
	model := &models.WeeklyAllowanceModel{
		UserID:    userID,
		WeekStart: weekStart,
		TotalSent: delta,
	}
	model.ID = uuid.New()
	model.CreatedAt = now
	model.UpdatedAt = now

	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "week_start"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_sent": gorm.Expr("total_sent + ?", delta),
				"updated_at": now,
			}),
		}).
		Create(model).Error
	if err != nil {
		if isCheckViolation(err) {
			return shared.ErrInsufficientAllowance
		}
		return err
	}
	return nil
}

var _ recognition.AllowanceRepository = (*GormAllowanceRepository)(nil)
