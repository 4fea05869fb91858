package dto

// MagicLinkRequest asks for a sign-in link
type MagicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyMagicLinkRequest exchanges a sign-in link token for a session
type VerifyMagicLinkRequest struct {
	Token string `json:"token" binding:"required"`
}

// RefreshRequest exchanges a refresh token for a new token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest revokes the session tokens
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SendThanksRequest creates a thanks post
type SendThanksRequest struct {
	RecipientID string `json:"recipient_id" binding:"required,uuid"`
	Message     string `json:"message" binding:"required,max=1000"`
	Points      int    `json:"points" binding:"required,min=1,max=100"`
}

// UpdateProfileRequest updates the caller's own profile.
// Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	DisplayName         *string `json:"display_name" binding:"omitempty,min=1,max=100"`
	NotificationEnabled *bool   `json:"notification_enabled"`
}

// AccessRequestRequest files a pre-signup access request
type AccessRequestRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Name   string `json:"name" binding:"required,max=100"`
	Reason string `json:"reason" binding:"max=500"`
}

// IDRequest represents a request with an ID path parameter
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// TimelineQuery holds timeline query parameters
type TimelineQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

// RankingQuery holds leaderboard query parameters
type RankingQuery struct {
	Month string `form:"month" binding:"omitempty,len=7"`
}

// NotificationListQuery holds notification list query parameters
type NotificationListQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}
