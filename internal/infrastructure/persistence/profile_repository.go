package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/kudos/backend/internal/domain/identity"
	"github.com/kudos/backend/internal/domain/shared"
	"github.com/kudos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProfileRepository implements ProfileRepository using GORM
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// Create creates a new profile
func (r *GormProfileRepository) Create(ctx context.Context, profile *identity.Profile) error {
	model := models.ProfileModelFromDomain(profile)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update updates an existing profile
func (r *GormProfileRepository) Update(ctx context.Context, profile *identity.Profile) error {
	model := models.ProfileModelFromDomain(profile)
	result := r.db.WithContext(ctx).Model(&models.ProfileModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"display_name":         model.DisplayName,
			"avatar_url":           model.AvatarURL,
			"notification_enabled": model.NotificationEnabled,
			"updated_at":           model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a profile by ID
func (r *GormProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Profile, error) {
	var model models.ProfileModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a profile by email (case-insensitive)
func (r *GormProfileRepository) FindByEmail(ctx context.Context, email string) (*identity.Profile, error) {
	var model models.ProfileModel
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every profile ordered by display name
func (r *GormProfileRepository) FindAll(ctx context.Context) ([]*identity.Profile, error) {
	var profileModels []models.ProfileModel
	if err := r.db.WithContext(ctx).
		Order("display_name ASC").
		Find(&profileModels).Error; err != nil {
		return nil, err
	}
	return toProfiles(profileModels), nil
}

// FindAllExcept returns every profile except the given one
func (r *GormProfileRepository) FindAllExcept(ctx context.Context, id uuid.UUID) ([]*identity.Profile, error) {
	var profileModels []models.ProfileModel
	if err := r.db.WithContext(ctx).
		Where("id <> ?", id).
		Order("display_name ASC").
		Find(&profileModels).Error; err != nil {
		return nil, err
	}
	return toProfiles(profileModels), nil
}

func toProfiles(profileModels []models.ProfileModel) []*identity.Profile {
	profiles := make([]*identity.Profile, len(profileModels))
	for i := range profileModels {
		profiles[i] = profileModels[i].ToDomain()
	}
	return profiles
}

var _ identity.ProfileRepository = (*GormProfileRepository)(nil)
