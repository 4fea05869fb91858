package recognition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kudos/backend/internal/domain/identity"
	"github.com/kudos/backend/internal/domain/recognition"
	"github.com/kudos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TransferService handles sending thanks posts against the weekly budget
type TransferService struct {
	postRepo      recognition.PostRepository
	allowanceRepo recognition.AllowanceRepository
	profileRepo   identity.ProfileRepository
	now           func() time.Time
	logger        *zap.Logger
}

// NewTransferService creates a new transfer service
func NewTransferService(
	postRepo recognition.PostRepository,
	allowanceRepo recognition.AllowanceRepository,
	profileRepo identity.ProfileRepository,
	logger *zap.Logger,
) *TransferService {
	return &TransferService{
		postRepo:      postRepo,
		allowanceRepo: allowanceRepo,
		profileRepo:   profileRepo,
		now:           time.Now,
		logger:        logger,
	}
}

// SendThanks validates and commits a thanks transfer. The advisory
// allowance read gives the sender a friendly message with the exact
// remaining budget; the ledger write inside the repository transaction is
// what actually enforces the ceiling under concurrency.
func (s *TransferService) SendThanks(ctx context.Context, input SendThanksInput) (*SendThanksResult, error) {
	post, err := recognition.NewPost(input.SenderID, input.RecipientID, input.Message, input.Points)
	if err != nil {
		return nil, err
	}

	recipient, err := s.profileRepo.FindByID(ctx, input.RecipientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("RECIPIENT_NOT_FOUND", "Recipient does not exist")
		}
		return nil, err
	}
	sender, err := s.profileRepo.FindByID(ctx, input.SenderID)
	if err != nil {
		return nil, err
	}

	weekStart := recognition.WeekStart(s.now())
	remaining, err := s.remainingFor(ctx, input.SenderID, weekStart)
	if err != nil {
		return nil, err
	}
	if input.Points > remaining {
		return nil, shared.NewDomainError("INSUFFICIENT_ALLOWANCE",
			fmt.Sprintf("Not enough points left this week: %d remaining", remaining))
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		if errors.Is(err, shared.ErrInsufficientAllowance) {
			// A concurrent transfer spent the budget between the advisory
			// read and the commit
			return nil, shared.NewDomainError("INSUFFICIENT_ALLOWANCE",
				"Not enough points left this week")
		}
		return nil, err
	}

	remaining, err = s.remainingFor(ctx, input.SenderID, weekStart)
	if err != nil {
		return nil, err
	}

	s.logger.Info("thanks sent",
		zap.String("post_id", post.ID.String()),
		zap.String("sender_id", post.SenderID.String()),
		zap.String("recipient_id", post.RecipientID.String()),
		zap.Int("points", post.Points),
		zap.Int("remaining", remaining),
	)

	return &SendThanksResult{
		Post: TimelineItem{
			ID:        post.ID,
			Sender:    profileSummary(sender),
			Recipient: profileSummary(recipient),
			Message:   post.Message,
			Points:    post.Points,
			CreatedAt: post.CreatedAt,
		},
		Remaining: remaining,
	}, nil
}

// GetAllowance returns the sender's budget for the current week
func (s *TransferService) GetAllowance(ctx context.Context, userID uuid.UUID) (*AllowanceDTO, error) {
	weekStart := recognition.WeekStart(s.now())

	allowance, err := s.allowanceRepo.Find(ctx, userID, weekStart)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	totalSent := 0
	if allowance != nil {
		totalSent = allowance.TotalSent
	}

	return &AllowanceDTO{
		WeekStart: weekStart,
		Limit:     recognition.WeeklyLimit,
		TotalSent: totalSent,
		Remaining: allowance.Remaining(),
	}, nil
}

func (s *TransferService) remainingFor(ctx context.Context, userID uuid.UUID, weekStart time.Time) (int, error) {
	allowance, err := s.allowanceRepo.Find(ctx, userID, weekStart)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return recognition.WeeklyLimit, nil
		}
		return 0, err
	}
	return allowance.Remaining(), nil
}

func profileSummary(p *identity.Profile) TimelineSender {
	return TimelineSender{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
	}
}
