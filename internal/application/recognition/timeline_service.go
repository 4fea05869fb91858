package recognition

import (
	"context"

	"github.com/google/uuid"
	"github.com/kudos/backend/internal/domain/identity"
	"github.com/kudos/backend/internal/domain/recognition"
	"go.uber.org/zap"
)

// DefaultTimelineLimit caps the timeline when the client does not ask
// for a specific page size.
const DefaultTimelineLimit = 50

// MaxTimelineLimit is the hard ceiling for one timeline read
const MaxTimelineLimit = 200

// TimelineService serves the shared recent-posts feed
type TimelineService struct {
	postRepo    recognition.PostRepository
	profileRepo identity.ProfileRepository
	logger      *zap.Logger
}

// NewTimelineService creates a new timeline service
func NewTimelineService(
	postRepo recognition.PostRepository,
	profileRepo identity.ProfileRepository,
	logger *zap.Logger,
) *TimelineService {
	return &TimelineService{
		postRepo:    postRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// ListRecent returns the newest posts with both profile summaries attached
func (s *TimelineService) ListRecent(ctx context.Context, limit int) ([]TimelineItem, error) {
	if limit <= 0 {
		limit = DefaultTimelineLimit
	}
	if limit > MaxTimelineLimit {
		limit = MaxTimelineLimit
	}

	posts, err := s.postRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	profiles, err := s.profileIndex(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]TimelineItem, len(posts))
	for i, post := range posts {
		items[i] = TimelineItem{
			ID:        post.ID,
			Sender:    profiles[post.SenderID],
			Recipient: profiles[post.RecipientID],
			Message:   post.Message,
			Points:    post.Points,
			CreatedAt: post.CreatedAt,
		}
	}
	return items, nil
}

// profileIndex loads all profiles keyed by ID. The team roster is small
// enough that one read beats a join per post.
func (s *TimelineService) profileIndex(ctx context.Context) (map[uuid.UUID]TimelineSender, error) {
	profiles, err := s.profileRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[uuid.UUID]TimelineSender, len(profiles))
	for _, p := range profiles {
		index[p.ID] = profileSummary(p)
	}
	return index, nil
}
