package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostHandler_SendThanks(t *testing.T) {
	stack := newTestStack(t)
	senderToken, _ := stack.signIn(t, "sender@example.com")
	_, recipientID := stack.signIn(t, "recipient@example.com")

	t.Run("creates a post and reports the remaining budget", func(t *testing.T) {
		w := stack.do(t, http.MethodPost, "/api/v1/posts", senderToken, gin.H{
			"recipient_id": recipientID,
			"message":      "thanks for the patient code review",
			"points":       30,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		result := data(t, w)
		assert.Equal(t, float64(70), result["remaining"])
		post := result["post"].(map[string]interface{})
		assert.Equal(t, "thanks for the patient code review", post["message"])
		assert.Equal(t, float64(30), post["points"])
		assert.Equal(t, recipientID, post["recipient"].(map[string]interface{})["id"])
	})

	t.Run("requires authentication", func(t *testing.T) {
		w := stack.do(t, http.MethodPost, "/api/v1/posts", "", gin.H{
			"recipient_id": recipientID,
			"message":      "hello",
			"points":       5,
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("binding rejects out-of-range points", func(t *testing.T) {
		for _, points := range []int{0, -5, 101} {
			w := stack.do(t, http.MethodPost, "/api/v1/posts", senderToken, gin.H{
				"recipient_id": recipientID,
				"message":      "too many",
				"points":       points,
			})
			assert.Equal(t, http.StatusBadRequest, w.Code, "points %d", points)
		}
	})

	t.Run("self-thanks is unprocessable", func(t *testing.T) {
		selfToken, selfID := stack.signIn(t, "narcissist@example.com")

		w := stack.do(t, http.MethodPost, "/api/v1/posts", selfToken, gin.H{
			"recipient_id": selfID,
			"message":      "well done me",
			"points":       5,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "ERR_SELF_THANKS", errorCode(t, w))
	})

	t.Run("unknown recipient", func(t *testing.T) {
		w := stack.do(t, http.MethodPost, "/api/v1/posts", senderToken, gin.H{
			"recipient_id": uuid.New().String(),
			"message":      "hello",
			"points":       5,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "ERR_NOT_FOUND", errorCode(t, w))
	})

	t.Run("exhausting the allowance is unprocessable", func(t *testing.T) {
		token, _ := stack.signIn(t, "spender@example.com")

		w := stack.do(t, http.MethodPost, "/api/v1/posts", token, gin.H{
			"recipient_id": recipientID,
			"message":      "most of the budget",
			"points":       95,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = stack.do(t, http.MethodPost, "/api/v1/posts", token, gin.H{
			"recipient_id": recipientID,
			"message":      "one too many",
			"points":       10,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "ERR_INSUFFICIENT_ALLOWANCE", errorCode(t, w))
	})
}

func TestPostHandler_ListTimeline(t *testing.T) {
	stack := newTestStack(t)
	senderToken, _ := stack.signIn(t, "sender@example.com")
	_, recipientID := stack.signIn(t, "recipient@example.com")

	for _, message := range []string{"first", "second"} {
		w := stack.do(t, http.MethodPost, "/api/v1/posts", senderToken, gin.H{
			"recipient_id": recipientID,
			"message":      message,
			"points":       5,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("newest first with meta", func(t *testing.T) {
		w := stack.do(t, http.MethodGet, "/api/v1/posts", senderToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode(t, w)
		require.True(t, resp.Success)
		items := resp.Data.([]interface{})
		require.Len(t, items, 2)
		assert.Equal(t, "second", items[0].(map[string]interface{})["message"])
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(2), resp.Meta.Total)
	})

	t.Run("invalid limit is rejected", func(t *testing.T) {
		w := stack.do(t, http.MethodGet, "/api/v1/posts?limit=9999", senderToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPostHandler_GetAllowance(t *testing.T) {
	stack := newTestStack(t)
	token, _ := stack.signIn(t, "sender@example.com")
	_, recipientID := stack.signIn(t, "recipient@example.com")

	t.Run("fresh week", func(t *testing.T) {
		w := stack.do(t, http.MethodGet, "/api/v1/allowance", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		allowance := data(t, w)
		assert.Equal(t, float64(100), allowance["limit"])
		assert.Equal(t, float64(0), allowance["total_sent"])
		assert.Equal(t, float64(100), allowance["remaining"])
	})

	t.Run("after a transfer", func(t *testing.T) {
		w := stack.do(t, http.MethodPost, "/api/v1/posts", token, gin.H{
			"recipient_id": recipientID,
			"message":      "thanks",
			"points":       25,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = stack.do(t, http.MethodGet, "/api/v1/allowance", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		allowance := data(t, w)
		assert.Equal(t, float64(25), allowance["total_sent"])
		assert.Equal(t, float64(75), allowance["remaining"])
	})
}
