package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/kudos/backend/internal/domain/identity"
)

// ProfileDTO is the application-layer view of a profile
type ProfileDTO struct {
	ID                  uuid.UUID `json:"id"`
	DisplayName         string    `json:"display_name"`
	Email               string    `json:"email"`
	AvatarURL           string    `json:"avatar_url,omitempty"`
	NotificationEnabled bool      `json:"notification_enabled"`
	Initials            string    `json:"initials"`
	CreatedAt           time.Time `json:"created_at"`
}

// ProfileToDTO converts a domain profile to a DTO
func ProfileToDTO(p *identity.Profile) ProfileDTO {
	return ProfileDTO{
		ID:                  p.ID,
		DisplayName:         p.DisplayName,
		Email:               p.Email,
		AvatarURL:           p.AvatarURL,
		NotificationEnabled: p.NotificationEnabled,
		Initials:            p.Initials(),
		CreatedAt:           p.CreatedAt,
	}
}

// SignInResult is returned after a successful magic-link verification
type SignInResult struct {
	Profile               ProfileDTO `json:"profile"`
	AccessToken           string     `json:"access_token"`
	RefreshToken          string     `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time  `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time  `json:"refresh_token_expires_at"`
	FirstSignIn           bool       `json:"first_sign_in"`
}

// UpdateProfileInput contains fields for a profile update.
// Nil pointers leave the field unchanged.
type UpdateProfileInput struct {
	DisplayName         *string
	NotificationEnabled *bool
}

// UploadAvatarInput carries an avatar image upload
type UploadAvatarInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// SubmitAccessRequestInput contains fields for a new access request
type SubmitAccessRequestInput struct {
	Email  string
	Name   string
	Reason string
}
