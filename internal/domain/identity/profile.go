package identity

import (
	"strings"

	"github.com/kudos/backend/internal/domain/shared"
)

// Profile represents an authenticated member of the team.
// It is the aggregate root for profile operations. The profile ID is the
// stable subject identifier carried in session tokens for the life of the
// account.
type Profile struct {
	shared.BaseAggregateRoot
	DisplayName         string
	Email               string // immutable once set
	AvatarURL           string
	NotificationEnabled bool
}

// NewProfile provisions a profile on first successful sign-in.
// The display name defaults to the local part of the email address.
func NewProfile(email string) (*Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	displayName := email
	if at := strings.Index(email, "@"); at > 0 {
		displayName = email[:at]
	}

	return &Profile{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		DisplayName:         displayName,
		Email:               email,
		NotificationEnabled: true,
	}, nil
}

// UpdateDisplayName changes the profile's display name
func (p *Profile) UpdateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Display name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_INPUT", "Display name cannot exceed 100 characters")
	}
	p.DisplayName = name
	return nil
}

// SetAvatarURL sets or clears the avatar image URL
func (p *Profile) SetAvatarURL(url string) {
	p.AvatarURL = strings.TrimSpace(url)
}

// SetNotificationEnabled toggles the desktop notification preference
func (p *Profile) SetNotificationEnabled(enabled bool) {
	p.NotificationEnabled = enabled
}

// Initials returns up to two uppercase initials derived from the display
// name, used as the avatar fallback.
func (p *Profile) Initials() string {
	var initials []rune
	for _, part := range strings.Fields(p.DisplayName) {
		runes := []rune(part)
		if len(runes) > 0 {
			initials = append(initials, runes[0])
		}
		if len(initials) == 2 {
			break
		}
	}
	return strings.ToUpper(string(initials))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_INPUT", "Email is required")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return shared.NewDomainError("INVALID_INPUT", "Email format is invalid")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_INPUT", "Email cannot exceed 200 characters")
	}
	return nil
}
