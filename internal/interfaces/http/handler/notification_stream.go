package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	notificationapp "github.com/kudos/backend/internal/application/notification"
	"go.uber.org/zap"
)

// SSEMessage is one event on a notification stream
type SSEMessage struct {
	Event string
	Data  string
	ID    string
}

// NotificationStreamHandler serves live notification pushes over
// Server-Sent Events. Each connection subscribes to the broadcaster for
// the authenticated user; polling remains the delivery guarantee, the
// stream is best-effort.
type NotificationStreamHandler struct {
	BaseHandler
	broadcaster *notificationapp.Broadcaster
	logger      *zap.Logger
	heartbeat   time.Duration
	maxClients  int64
	clientCount atomic.Int64
}

// NotificationStreamOption configures the stream handler
type NotificationStreamOption func(*NotificationStreamHandler)

// WithStreamHeartbeat sets the heartbeat interval
func WithStreamHeartbeat(interval time.Duration) NotificationStreamOption {
	return func(h *NotificationStreamHandler) {
		h.heartbeat = interval
	}
}

// WithStreamMaxClients caps the number of concurrent connections
func WithStreamMaxClients(max int64) NotificationStreamOption {
	return func(h *NotificationStreamHandler) {
		h.maxClients = max
	}
}

// NewNotificationStreamHandler creates a new SSE stream handler
func NewNotificationStreamHandler(
	broadcaster *notificationapp.Broadcaster,
	logger *zap.Logger,
	opts ...NotificationStreamOption,
) *NotificationStreamHandler {
	h := &NotificationStreamHandler{
		broadcaster: broadcaster,
		logger:      logger,
		heartbeat:   30 * time.Second,
		maxClients:  10000,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Stream establishes an SSE connection and forwards the caller's
// notifications until the client disconnects
func (h *NotificationStreamHandler) Stream(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if h.maxClients > 0 && h.clientCount.Load() >= h.maxClients {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ERR_MAX_CONNECTIONS",
				"message": "Maximum number of stream connections reached",
			},
		})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	events, cancel := h.broadcaster.Subscribe(userID)
	defer cancel()

	h.clientCount.Add(1)
	defer h.clientCount.Add(-1)

	h.logger.Info("notification stream connected",
		zap.String("user_id", userID.String()))

	sendEvent(c.Writer, SSEMessage{
		Event: "connected",
		Data:  fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
	})
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	reqCtx := c.Request.Context()
	for {
		select {
		case <-reqCtx.Done():
			h.logger.Info("notification stream disconnected",
				zap.String("user_id", userID.String()))
			return
		case <-ticker.C:
			sendEvent(c.Writer, SSEMessage{
				Event: "heartbeat",
				Data:  fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
			})
			c.Writer.Flush()
		case dto, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(dto)
			if err != nil {
				h.logger.Error("failed to marshal notification event", zap.Error(err))
				continue
			}
			sendEvent(c.Writer, SSEMessage{
				Event: "notification",
				Data:  string(data),
				ID:    dto.ID.String(),
			})
			c.Writer.Flush()
		}
	}
}

// ClientCount returns the number of connected stream clients
func (h *NotificationStreamHandler) ClientCount() int64 {
	return h.clientCount.Load()
}

func sendEvent(w io.Writer, msg SSEMessage) {
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	if msg.ID != "" {
		fmt.Fprintf(w, "id: %s\n", msg.ID)
	}
	fmt.Fprintf(w, "data: %s\n\n", msg.Data)
}
