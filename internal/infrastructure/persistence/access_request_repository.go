package persistence

import (
	"context"
	"strings"

	"github.com/kudos/backend/internal/domain/identity"
	"github.com/kudos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAccessRequestRepository implements AccessRequestRepository using GORM
type GormAccessRequestRepository struct {
	db *gorm.DB
}

// NewGormAccessRequestRepository creates a new GormAccessRequestRepository
func NewGormAccessRequestRepository(db *gorm.DB) *GormAccessRequestRepository {
	return &GormAccessRequestRepository{db: db}
}

// Create creates a new access request
func (r *GormAccessRequestRepository) Create(ctx context.Context, request *identity.AccessRequest) error {
	model := models.AccessRequestModelFromDomain(request)
	return r.db.WithContext(ctx).Create(model).Error
}

// ExistsByEmail checks whether a request for this email was already filed
func (r *GormAccessRequestRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AccessRequestModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

var _ identity.AccessRequestRepository = (*GormAccessRequestRepository)(nil)
