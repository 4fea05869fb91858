package recognition

import (
	"time"

	"github.com/google/uuid"
)

// SendThanksInput contains fields for sending a thanks post
type SendThanksInput struct {
	SenderID    uuid.UUID
	RecipientID uuid.UUID
	Message     string
	Points      int
}

// SendThanksResult is returned after a transfer commits
type SendThanksResult struct {
	Post      TimelineItem `json:"post"`
	Remaining int          `json:"remaining"`
}

// AllowanceDTO describes the sender's current weekly budget
type AllowanceDTO struct {
	WeekStart time.Time `json:"week_start"`
	Limit     int       `json:"limit"`
	TotalSent int       `json:"total_sent"`
	Remaining int       `json:"remaining"`
}

// TimelineSender is the embedded profile summary on a timeline item
type TimelineSender struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
}

// TimelineItem is one thanks post enriched with both profile summaries
type TimelineItem struct {
	ID        uuid.UUID      `json:"id"`
	Sender    TimelineSender `json:"sender"`
	Recipient TimelineSender `json:"recipient"`
	Message   string         `json:"message"`
	Points    int            `json:"points"`
	CreatedAt time.Time      `json:"created_at"`
}

// RankingEntry is one row of a monthly leaderboard
type RankingEntry struct {
	Rank        int       `json:"rank"`
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Points      int       `json:"points"`
	PostCount   int       `json:"post_count"`
}

// MonthlyRanking holds both leaderboards for one calendar month
type MonthlyRanking struct {
	Month       string         `json:"month"` // YYYY-MM
	TopReceived []RankingEntry `json:"top_received"`
	TopSent     []RankingEntry `json:"top_sent"`
	TotalPosts  int            `json:"total_posts"`
	TotalPoints int            `json:"total_points"`
}
