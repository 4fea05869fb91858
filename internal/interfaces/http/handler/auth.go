package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	identityapp "github.com/kudos/backend/internal/application/identity"
	"github.com/kudos/backend/internal/interfaces/http/dto"
	"github.com/kudos/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles the magic-link sign-in flow
type AuthHandler struct {
	BaseHandler
	authService    *identityapp.AuthService
	profileService *identityapp.ProfileService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identityapp.AuthService, profileService *identityapp.ProfileService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		profileService: profileService,
	}
}

// RequestMagicLink mails a one-time sign-in link to the given address.
// The response is identical whether or not the address is registered.
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req dto.MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	err := h.authService.RequestMagicLink(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"message": "If the address is valid, a sign-in link has been sent",
	})
}

// VerifyMagicLink exchanges a sign-in link token for a session token pair
func (h *AuthHandler) VerifyMagicLink(c *gin.Context) {
	var req dto.VerifyMagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.authService.VerifyMagicLink(c.Request.Context(), req.Token)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, pair)
}

// Logout revokes the caller's access token and, when provided, the
// refresh token of the same session.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	// Body is optional; logout without it still revokes the access token
	_ = c.ShouldBindJSON(&req)

	accessToken := strings.TrimPrefix(c.GetHeader(middleware.AuthHeaderKey), middleware.BearerPrefix)

	err := h.authService.Logout(c.Request.Context(), accessToken, req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Logged out successfully"})
}

// Me returns the authenticated caller's profile
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}
