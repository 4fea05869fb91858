package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadAvatar(t *testing.T, stack *testStack, token, fileName, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/api/v1/profile/avatar", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	stack.engine.ServeHTTP(w, req)
	return w
}

func TestProfileHandler_GetProfile(t *testing.T) {
	stack := newTestStack(t)
	token, userID := stack.signIn(t, "sam.rivera@example.com")

	w := stack.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	profile := data(t, w)
	assert.Equal(t, userID, profile["id"])
	assert.Equal(t, "sam.rivera", profile["display_name"])
	assert.Equal(t, "S", profile["initials"])
	assert.Equal(t, true, profile["notification_enabled"])
}

func TestProfileHandler_UpdateProfile(t *testing.T) {
	stack := newTestStack(t)
	token, _ := stack.signIn(t, "sam@example.com")

	t.Run("updates name and notification preference", func(t *testing.T) {
		w := stack.do(t, http.MethodPatch, "/api/v1/profile", token, gin.H{
			"display_name":         "Sam Rivera",
			"notification_enabled": false,
		})
		require.Equal(t, http.StatusOK, w.Code)

		profile := data(t, w)
		assert.Equal(t, "Sam Rivera", profile["display_name"])
		assert.Equal(t, "SR", profile["initials"])
		assert.Equal(t, false, profile["notification_enabled"])
	})

	t.Run("omitted fields stay unchanged", func(t *testing.T) {
		w := stack.do(t, http.MethodPatch, "/api/v1/profile", token, gin.H{})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Sam Rivera", data(t, w)["display_name"])
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		w := stack.do(t, http.MethodPatch, "/api/v1/profile", token, gin.H{"display_name": ""})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProfileHandler_UploadAvatar(t *testing.T) {
	stack := newTestStack(t)
	token, _ := stack.signIn(t, "sam@example.com")

	t.Run("stores the image and returns the new URL", func(t *testing.T) {
		w := uploadAvatar(t, stack, token, "me.png", "image/png", []byte("png-bytes"))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		avatarURL := data(t, w)["avatar_url"].(string)
		assert.Contains(t, avatarURL, "https://cdn.example.com/avatars/")

		// the profile now carries the URL
		w = stack.do(t, http.MethodGet, "/api/v1/profile", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, avatarURL, data(t, w)["avatar_url"])
	})

	t.Run("rejects non-image content", func(t *testing.T) {
		w := uploadAvatar(t, stack, token, "notes.txt", "text/plain", []byte("hello"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ERR_INVALID_FILE_TYPE", errorCode(t, w))
	})

	t.Run("rejects a missing file", func(t *testing.T) {
		w := stack.do(t, http.MethodPost, "/api/v1/profile/avatar", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProfileHandler_Lists(t *testing.T) {
	stack := newTestStack(t)
	token, _ := stack.signIn(t, "me@example.com")
	stack.signIn(t, "ana@example.com")
	stack.signIn(t, "zoe@example.com")

	t.Run("roster lists everyone", func(t *testing.T) {
		w := stack.do(t, http.MethodGet, "/api/v1/profiles", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode(t, w).Data, 3)
	})

	t.Run("recipients exclude the caller", func(t *testing.T) {
		w := stack.do(t, http.MethodGet, "/api/v1/profiles/recipients", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		items := decode(t, w).Data.([]interface{})
		require.Len(t, items, 2)
		for _, item := range items {
			assert.NotEqual(t, "me", item.(map[string]interface{})["display_name"])
		}
	})
}
