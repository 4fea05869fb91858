package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	notificationapp "github.com/kudos/backend/internal/application/notification"
	"github.com/kudos/backend/internal/interfaces/http/dto"
)

// NotificationHandler handles per-recipient notification endpoints
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *notificationapp.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List returns the caller's notifications, newest first
func (h *NotificationHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var query dto.NotificationListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	items, err := h.notificationService.List(c.Request.Context(), userID, query.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, int64(len(items)), len(items))
}

// UnreadStatus returns the unread count and newest unread ID. Clients
// poll this endpoint and use the newest ID to dedup desktop pushes.
func (h *NotificationHandler) UnreadStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	status, err := h.notificationService.UnreadStatus(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// MarkRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return
	}

	notificationID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), userID, notificationID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Notification marked as read"})
}

// MarkAllRead marks all of the caller's notifications as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "All notifications marked as read"})
}
