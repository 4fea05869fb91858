package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	recognitionapp "github.com/kudos/backend/internal/application/recognition"
	"github.com/kudos/backend/internal/interfaces/http/dto"
	"github.com/kudos/backend/internal/interfaces/http/middleware"
)

// PostHandler handles thanks posts, the shared timeline, and the
// caller's weekly allowance
type PostHandler struct {
	BaseHandler
	transferService *recognitionapp.TransferService
	timelineService *recognitionapp.TimelineService
}

// NewPostHandler creates a new post handler
func NewPostHandler(
	transferService *recognitionapp.TransferService,
	timelineService *recognitionapp.TimelineService,
) *PostHandler {
	return &PostHandler{
		transferService: transferService,
		timelineService: timelineService,
	}
}

// SendThanks creates a thanks post, debiting the sender's weekly allowance
func (h *PostHandler) SendThanks(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.SendThanksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		h.BadRequest(c, "Invalid recipient ID")
		return
	}

	result, err := h.transferService.SendThanks(c.Request.Context(), recognitionapp.SendThanksInput{
		SenderID:    userID,
		RecipientID: recipientID,
		Message:     req.Message,
		Points:      req.Points,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ListTimeline returns the most recent thanks posts, newest first
func (h *PostHandler) ListTimeline(c *gin.Context) {
	var query dto.TimelineQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	items, err := h.timelineService.ListRecent(c.Request.Context(), query.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, int64(len(items)), len(items))
}

// GetAllowance returns the caller's current weekly budget
func (h *PostHandler) GetAllowance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	allowance, err := h.transferService.GetAllowance(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, allowance)
}
