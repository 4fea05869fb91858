package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kudos/backend/internal/domain/identity"
	"github.com/kudos/backend/internal/domain/notification"
	"github.com/kudos/backend/internal/domain/recognition"
	"github.com/kudos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultListLimit caps a notification list read
const DefaultListLimit = 50

// NotificationService serves the notification dropdown and its polling
// endpoints
type NotificationService struct {
	notificationRepo notification.Repository
	postRepo         recognition.PostRepository
	profileRepo      identity.ProfileRepository
	logger           *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo notification.Repository,
	postRepo recognition.PostRepository,
	profileRepo identity.ProfileRepository,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		postRepo:         postRepo,
		profileRepo:      profileRepo,
		logger:           logger,
	}
}

// List returns the user's notifications, newest first, with the post and
// sender attached
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit int) ([]NotificationDTO, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	notifications, err := s.notificationRepo.FindByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if len(notifications) == 0 {
		return []NotificationDTO{}, nil
	}

	postIDs := make([]uuid.UUID, len(notifications))
	for i, n := range notifications {
		postIDs[i] = n.PostID
	}
	posts, err := s.postRepo.FindByIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	postIndex := make(map[uuid.UUID]*recognition.Post, len(posts))
	for _, p := range posts {
		postIndex[p.ID] = p
	}

	profiles, err := s.profileRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	profileIndex := make(map[uuid.UUID]*identity.Profile, len(profiles))
	for _, p := range profiles {
		profileIndex[p.ID] = p
	}

	dtos := make([]NotificationDTO, 0, len(notifications))
	for _, n := range notifications {
		post, ok := postIndex[n.PostID]
		if !ok {
			continue
		}
		dtos = append(dtos, buildDTO(n, post, profileIndex[post.SenderID]))
	}
	return dtos, nil
}

// UnreadStatus returns the unread count and the newest unread ID
func (s *NotificationService) UnreadStatus(ctx context.Context, userID uuid.UUID) (*UnreadStatus, error) {
	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &UnreadStatus{Count: count}
	if count == 0 {
		return status, nil
	}

	newest, err := s.notificationRepo.FindNewestUnread(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return status, nil
		}
		return nil, err
	}
	status.NewestID = &newest.ID
	return status, nil
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.notificationRepo.MarkRead(ctx, userID, notificationID)
}

// MarkAllRead marks every unread notification of the user as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

func buildDTO(n *notification.Notification, post *recognition.Post, sender *identity.Profile) NotificationDTO {
	dto := NotificationDTO{
		ID:        n.ID,
		PostID:    n.PostID,
		Message:   post.Message,
		Points:    post.Points,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if sender != nil {
		dto.Sender = SenderSummary{
			ID:          sender.ID,
			DisplayName: sender.DisplayName,
			AvatarURL:   sender.AvatarURL,
		}
	}
	return dto
}
