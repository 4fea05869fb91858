package identity

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository defines the interface for profile persistence
type ProfileRepository interface {
	// Create creates a new profile
	Create(ctx context.Context, profile *Profile) error

	// Update updates an existing profile
	Update(ctx context.Context, profile *Profile) error

	// FindByID finds a profile by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)

	// FindByEmail finds a profile by email
	FindByEmail(ctx context.Context, email string) (*Profile, error)

	// FindAll returns every profile ordered by display name
	FindAll(ctx context.Context) ([]*Profile, error)

	// FindAllExcept returns every profile except the given one, ordered by
	// display name. Used by the recipient picker.
	FindAllExcept(ctx context.Context, id uuid.UUID) ([]*Profile, error)
}
