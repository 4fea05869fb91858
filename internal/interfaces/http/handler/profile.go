package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	identityapp "github.com/kudos/backend/internal/application/identity"
	"github.com/kudos/backend/internal/interfaces/http/dto"
	"github.com/kudos/backend/internal/interfaces/http/middleware"
)

// ProfileHandler handles profile endpoints
type ProfileHandler struct {
	BaseHandler
	profileService *identityapp.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *identityapp.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile returns the caller's own profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
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

// UpdateProfile patches the caller's display name or notification setting
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, identityapp.UpdateProfileInput{
		DisplayName:         req.DisplayName,
		NotificationEnabled: req.NotificationEnabled,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// UploadAvatar accepts a multipart image upload for the caller's avatar
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing avatar file")
		return
	}

	if fileHeader.Size > identityapp.MaxAvatarSize {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeFileTooLarge), dto.ErrCodeFileTooLarge, "Avatar must be 5MB or smaller")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Failed to read avatar file")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, identityapp.MaxAvatarSize+1))
	if err != nil {
		h.BadRequest(c, "Failed to read avatar file")
		return
	}

	profile, err := h.profileService.UploadAvatar(c.Request.Context(), userID, identityapp.UploadAvatarInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// ListProfiles returns all member profiles ordered by display name
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.profileService.ListProfiles(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, profiles, int64(len(profiles)), len(profiles))
}

// ListRecipients returns everyone the caller can thank, which is every
// member except the caller
func (h *ProfileHandler) ListRecipients(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	profiles, err := h.profileService.ListRecipients(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, profiles, int64(len(profiles)), len(profiles))
}
