package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankingHandler_GetMonthlyRanking(t *testing.T) {
	stack := newTestStack(t)
	senderToken, senderID := stack.signIn(t, "sender@example.com")
	_, recipientID := stack.signIn(t, "recipient@example.com")

	w := stack.do(t, http.MethodPost, "/api/v1/posts", senderToken, gin.H{
		"recipient_id": recipientID,
		"message":      "thanks",
		"points":       20,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("current month by default", func(t *testing.T) {
		w := stack.do(t, http.MethodGet, "/api/v1/ranking", senderToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		ranking := data(t, w)
		assert.Equal(t, time.Now().Format("2006-01"), ranking["month"])
		assert.Equal(t, float64(1), ranking["total_posts"])
		assert.Equal(t, float64(20), ranking["total_points"])

		received := ranking["top_received"].([]interface{})
		require.Len(t, received, 2)
		top := received[0].(map[string]interface{})
		assert.Equal(t, recipientID, top["user_id"])
		assert.Equal(t, float64(20), top["points"])
		assert.Equal(t, float64(1), top["rank"])
		assert.Equal(t, float64(0), received[1].(map[string]interface{})["points"])

		sent := ranking["top_sent"].([]interface{})
		require.Len(t, sent, 2)
		assert.Equal(t, senderID, sent[0].(map[string]interface{})["user_id"])
	})

	t.Run("explicit empty month ranks everyone with zero", func(t *testing.T) {
		w := stack.do(t, http.MethodGet, "/api/v1/ranking?month=2020-01", senderToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		ranking := data(t, w)
		assert.Equal(t, "2020-01", ranking["month"])
		assert.Equal(t, float64(0), ranking["total_posts"])

		received := ranking["top_received"].([]interface{})
		require.Len(t, received, 2)
		assert.Equal(t, float64(0), received[0].(map[string]interface{})["points"])
	})

	t.Run("malformed month is rejected", func(t *testing.T) {
		w := stack.do(t, http.MethodGet, "/api/v1/ranking?month=january", senderToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		w := stack.do(t, http.MethodGet, "/api/v1/ranking", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
