package identity

import (
	"context"
	"strings"

	"github.com/kudos/backend/internal/domain/shared"
)

// AccessRequestStatus represents the review state of an access request
type AccessRequestStatus string

const (
	AccessRequestPending  AccessRequestStatus = "pending"
	AccessRequestApproved AccessRequestStatus = "approved"
	AccessRequestRejected AccessRequestStatus = "rejected"
)

// AccessRequest is a pre-signup intake record captured from the login page.
type AccessRequest struct {
	shared.BaseEntity
	Email  string
	Name   string
	Reason string
	Status AccessRequestStatus
}

// NewAccessRequest creates a pending access request
func NewAccessRequest(email, name, reason string) (*AccessRequest, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Name is required")
	}

	return &AccessRequest{
		BaseEntity: shared.NewBaseEntity(),
		Email:      email,
		Name:       name,
		Reason:     strings.TrimSpace(reason),
		Status:     AccessRequestPending,
	}, nil
}

// AccessRequestRepository defines the interface for access request persistence
type AccessRequestRepository interface {
	// Create creates a new access request
	Create(ctx context.Context, request *AccessRequest) error

	// ExistsByEmail checks whether a request for this email was already filed
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
