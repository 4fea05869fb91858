package identity

import (
	"context"

	"github.com/kudos/backend/internal/domain/identity"
	"github.com/kudos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AccessRequestService records access requests from the login page
type AccessRequestService struct {
	requestRepo identity.AccessRequestRepository
	profileRepo identity.ProfileRepository
	logger      *zap.Logger
}

// NewAccessRequestService creates a new access request service
func NewAccessRequestService(
	requestRepo identity.AccessRequestRepository,
	profileRepo identity.ProfileRepository,
	logger *zap.Logger,
) *AccessRequestService {
	return &AccessRequestService{
		requestRepo: requestRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Submit files a pending access request. Addresses that already have an
// account or an open request are rejected.
func (s *AccessRequestService) Submit(ctx context.Context, input SubmitAccessRequestInput) error {
	request, err := identity.NewAccessRequest(input.Email, input.Name, input.Reason)
	if err != nil {
		return err
	}

	if _, err := s.profileRepo.FindByEmail(ctx, request.Email); err == nil {
		return shared.NewDomainError("ALREADY_REGISTERED", "This email already has an account")
	}

	exists, err := s.requestRepo.ExistsByEmail(ctx, request.Email)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("REQUEST_PENDING", "A request for this email is already on file")
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return err
	}

	s.logger.Info("access request filed", zap.String("email", request.Email))
	return nil
}
