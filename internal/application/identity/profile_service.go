package identity

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kudos/backend/internal/domain/identity"
	"github.com/kudos/backend/internal/domain/shared"
	"github.com/kudos/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// MaxAvatarSize is the upload ceiling for avatar images
const MaxAvatarSize = 5 << 20 // 5MB

// ProfileService handles profile reads, updates and avatar uploads
type ProfileService struct {
	profileRepo identity.ProfileRepository
	objects     storage.ObjectStorage
	logger      *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	profileRepo identity.ProfileRepository,
	objects storage.ObjectStorage,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		objects:     objects,
		logger:      logger,
	}
}

// GetProfile returns one profile by ID
func (s *ProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ProfileToDTO(profile)
	return &dto, nil
}

// ListProfiles returns every profile ordered by display name
func (s *ProfileService) ListProfiles(ctx context.Context) ([]ProfileDTO, error) {
	profiles, err := s.profileRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return profilesToDTOs(profiles), nil
}

// ListRecipients returns every profile except the requesting user,
// for the recipient picker on the send form.
func (s *ProfileService) ListRecipients(ctx context.Context, userID uuid.UUID) ([]ProfileDTO, error) {
	profiles, err := s.profileRepo.FindAllExcept(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profilesToDTOs(profiles), nil
}

// UpdateProfile applies the given changes to the user's own profile
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		if err := profile.UpdateDisplayName(*input.DisplayName); err != nil {
			return nil, err
		}
	}
	if input.NotificationEnabled != nil {
		profile.SetNotificationEnabled(*input.NotificationEnabled)
	}
	profile.UpdatedAt = time.Now()

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	dto := ProfileToDTO(profile)
	return &dto, nil
}

// UploadAvatar validates and stores an avatar image, then points the
// profile at its public URL. The key embeds the upload timestamp so a
// new avatar is a new object and caches never serve a stale image.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID uuid.UUID, input UploadAvatarInput) (*ProfileDTO, error) {
	if len(input.Data) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Avatar file is empty")
	}
	if len(input.Data) > MaxAvatarSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "Avatar image cannot exceed 5MB")
	}
	if !strings.HasPrefix(input.ContentType, "image/") {
		return nil, shared.NewDomainError("INVALID_FILE_TYPE", "Avatar must be an image")
	}

	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(input.FileName))
	if ext == "" {
		ext = ".png"
	}
	key := fmt.Sprintf("%s/%d%s", userID, time.Now().UnixMilli(), ext)

	if err := s.objects.Upload(ctx, key, input.Data, input.ContentType); err != nil {
		s.logger.Error("failed to upload avatar",
			zap.String("profile_id", userID.String()),
			zap.Error(err),
		)
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to upload avatar image")
	}

	profile.SetAvatarURL(s.objects.PublicURL(key))
	profile.UpdatedAt = time.Now()
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	dto := ProfileToDTO(profile)
	return &dto, nil
}

func profilesToDTOs(profiles []*identity.Profile) []ProfileDTO {
	dtos := make([]ProfileDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = ProfileToDTO(p)
	}
	return dtos
}
