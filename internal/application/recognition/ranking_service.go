package recognition

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/kudos/backend/internal/domain/identity"
	"github.com/kudos/backend/internal/domain/recognition"
	"github.com/kudos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RankingSize is the number of rows on each monthly leaderboard
const RankingSize = 10

// RankingService computes the monthly received/sent leaderboards
type RankingService struct {
	postRepo    recognition.PostRepository
	profileRepo identity.ProfileRepository
	now         func() time.Time
	logger      *zap.Logger
}

// NewRankingService creates a new ranking service
func NewRankingService(
	postRepo recognition.PostRepository,
	profileRepo identity.ProfileRepository,
	logger *zap.Logger,
) *RankingService {
	return &RankingService{
		postRepo:    postRepo,
		profileRepo: profileRepo,
		now:         time.Now,
		logger:      logger,
	}
}

type userTally struct {
	userID uuid.UUID
	points int
	posts  int
	order  int // first-seen order, keeps equal scores stable
}

// GetMonthlyRanking aggregates the given calendar month ("YYYY-MM",
// empty means the current month) into top-10 received and sent boards.
// Every profile is ranked, zero-activity ones included; ties keep
// roster order.
func (s *RankingService) GetMonthlyRanking(ctx context.Context, month string) (*MonthlyRanking, error) {
	first, err := s.parseMonth(month)
	if err != nil {
		return nil, err
	}
	next := first.AddDate(0, 1, 0)

	posts, err := s.postRepo.FindInWindow(ctx, first, next.Add(-time.Nanosecond))
	if err != nil {
		return nil, err
	}

	profiles, err := s.profileRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[uuid.UUID]*identity.Profile, len(profiles))
	received := make(map[uuid.UUID]*userTally, len(profiles))
	sent := make(map[uuid.UUID]*userTally, len(profiles))

	// Every profile appears on the boards, zero-activity ones with 0.
	// Ties keep roster order.
	for i, p := range profiles {
		index[p.ID] = p
		received[p.ID] = &userTally{userID: p.ID, order: i}
		sent[p.ID] = &userTally{userID: p.ID, order: i}
	}

	totalPoints := 0
	for _, post := range posts {
		tallyInto(received, post.RecipientID, post.Points)
		tallyInto(sent, post.SenderID, post.Points)
		totalPoints += post.Points
	}

	return &MonthlyRanking{
		Month:       first.Format("2006-01"),
		TopReceived: topEntries(received, index),
		TopSent:     topEntries(sent, index),
		TotalPosts:  len(posts),
		TotalPoints: totalPoints,
	}, nil
}

func (s *RankingService) parseMonth(month string) (time.Time, error) {
	if month == "" {
		now := s.now()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	}
	first, err := time.ParseInLocation("2006-01", month, s.now().Location())
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_INPUT", "Month must be in YYYY-MM format")
	}
	return first, nil
}

func tallyInto(tallies map[uuid.UUID]*userTally, userID uuid.UUID, points int) {
	t, ok := tallies[userID]
	if !ok {
		t = &userTally{userID: userID, order: len(tallies)}
		tallies[userID] = t
	}
	t.points += points
	t.posts++
}

func topEntries(tallies map[uuid.UUID]*userTally, profiles map[uuid.UUID]*identity.Profile) []RankingEntry {
	list := make([]*userTally, 0, len(tallies))
	for _, t := range tallies {
		list = append(list, t)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].points != list[j].points {
			return list[i].points > list[j].points
		}
		return list[i].order < list[j].order
	})

	if len(list) > RankingSize {
		list = list[:RankingSize]
	}

	entries := make([]RankingEntry, len(list))
	for i, t := range list {
		entry := RankingEntry{
			Rank:      i + 1,
			UserID:    t.userID,
			Points:    t.points,
			PostCount: t.posts,
		}
		if p, ok := profiles[t.userID]; ok {
			entry.DisplayName = p.DisplayName
			entry.AvatarURL = p.AvatarURL
		}
		entries[i] = entry
	}
	return entries
}
