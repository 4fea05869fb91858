package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/kudos/backend/internal/application/identity"
	notificationapp "github.com/kudos/backend/internal/application/notification"
	recognitionapp "github.com/kudos/backend/internal/application/recognition"
	"github.com/kudos/backend/internal/infrastructure/auth"
	"github.com/kudos/backend/internal/infrastructure/config"
	"github.com/kudos/backend/internal/infrastructure/persistence"
	"github.com/kudos/backend/internal/infrastructure/persistence/models"
	"github.com/kudos/backend/internal/infrastructure/storage"
	"github.com/kudos/backend/internal/interfaces/http/dto"
	"github.com/kudos/backend/internal/interfaces/http/middleware"
	"github.com/kudos/backend/internal/interfaces/http/router"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// captureMailer records the last magic link instead of sending mail
type captureMailer struct {
	link string
}

func (m *captureMailer) SendMagicLink(_ context.Context, _, link string) error {
	m.link = link
	return nil
}

// testStack wires the full HTTP surface against sqlite and in-memory
// infrastructure, mirroring the production wiring in cmd/server.
type testStack struct {
	engine *gin.Engine
	mailer *captureMailer
	fanout *notificationapp.PostCreatedHandler

	profileRepo      *persistence.GormProfileRepository
	notificationRepo *persistence.GormNotificationRepository
	postRepo         *persistence.GormPostRepository
	broadcaster      *notificationapp.Broadcaster
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.ProfileModel{},
		&models.AccessRequestModel{},
		&models.PostModel{},
		&models.WeeklyAllowanceModel{},
		&models.NotificationModel{},
	))

	log := zap.NewNop()
	profileRepo := persistence.NewGormProfileRepository(db)
	accessRequestRepo := persistence.NewGormAccessRequestRepository(db)
	allowanceRepo := persistence.NewGormAllowanceRepository(db)
	postRepo := persistence.NewGormPostRepository(db, allowanceRepo)
	notificationRepo := persistence.NewGormNotificationRepository(db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		MagicLinkExpiration:    15 * time.Minute,
		Issuer:                 "kudos-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	mailer := &captureMailer{}
	objects := storage.NewMemoryObjectStorage("https://cdn.example.com/avatars")
	broadcaster := notificationapp.NewBroadcaster(log)

	authService := identityapp.NewAuthService(profileRepo, jwtService, blacklist, mailer, "https://kudos.example.com", log)
	profileService := identityapp.NewProfileService(profileRepo, objects, log)
	accessRequestService := identityapp.NewAccessRequestService(accessRequestRepo, profileRepo, log)
	transferService := recognitionapp.NewTransferService(postRepo, allowanceRepo, profileRepo, log)
	timelineService := recognitionapp.NewTimelineService(postRepo, profileRepo, log)
	rankingService := recognitionapp.NewRankingService(postRepo, profileRepo, log)
	notificationService := notificationapp.NewNotificationService(notificationRepo, postRepo, profileRepo, log)

	authHandler := NewAuthHandler(authService, profileService)
	profileHandler := NewProfileHandler(profileService)
	accessRequestHandler := NewAccessRequestHandler(accessRequestService)
	postHandler := NewPostHandler(transferService, timelineService)
	rankingHandler := NewRankingHandler(rankingService)
	notificationHandler := NewNotificationHandler(notificationService)
	streamHandler := NewNotificationStreamHandler(broadcaster, log, WithStreamHeartbeat(50*time.Millisecond))
	systemHandler := NewSystemHandler(nil)

	engine := gin.New()
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/magic-link",
			"/api/v1/auth/callback",
			"/api/v1/auth/refresh",
			"/api/v1/access-requests",
			"/api/v1/system/info",
		},
		Logger: log,
	}))

	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/magic-link", authHandler.RequestMagicLink)
	authRoutes.POST("/callback", authHandler.VerifyMagicLink)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)

	profileRoutes := router.NewDomainGroup("profile", "")
	profileRoutes.GET("/profile", profileHandler.GetProfile)
	profileRoutes.PATCH("/profile", profileHandler.UpdateProfile)
	profileRoutes.POST("/profile/avatar", profileHandler.UploadAvatar)
	profileRoutes.GET("/profiles", profileHandler.ListProfiles)
	profileRoutes.GET("/profiles/recipients", profileHandler.ListRecipients)

	accessRoutes := router.NewDomainGroup("access-requests", "/access-requests")
	accessRoutes.POST("", accessRequestHandler.Submit)

	postRoutes := router.NewDomainGroup("posts", "")
	postRoutes.POST("/posts", postHandler.SendThanks)
	postRoutes.GET("/posts", postHandler.ListTimeline)
	postRoutes.GET("/allowance", postHandler.GetAllowance)

	rankingRoutes := router.NewDomainGroup("ranking", "/ranking")
	rankingRoutes.GET("", rankingHandler.GetMonthlyRanking)

	notificationRoutes := router.NewDomainGroup("notifications", "/notifications")
	notificationRoutes.GET("", notificationHandler.List)
	notificationRoutes.GET("/unread", notificationHandler.UnreadStatus)
	notificationRoutes.GET("/stream", streamHandler.Stream)
	notificationRoutes.POST("/:id/read", notificationHandler.MarkRead)
	notificationRoutes.POST("/read-all", notificationHandler.MarkAllRead)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	r.Register(authRoutes).
		Register(profileRoutes).
		Register(accessRoutes).
		Register(postRoutes).
		Register(rankingRoutes).
		Register(notificationRoutes).
		Register(systemRoutes)
	r.Setup()

	return &testStack{
		engine:           engine,
		mailer:           mailer,
		fanout:           notificationapp.NewPostCreatedHandler(notificationRepo, profileRepo, broadcaster, log),
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
		postRepo:         postRepo,
		broadcaster:      broadcaster,
	}
}

// do performs a request and returns the recorder
func (s *testStack) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// decode unmarshals the response envelope
func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func data(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	resp := decode(t, w)
	require.True(t, resp.Success, "expected success envelope, got %s", w.Body.String())
	m, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "expected object data, got %T", resp.Data)
	return m
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decode(t, w)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

// signIn drives the full magic-link flow and returns the session
func (s *testStack) signIn(t *testing.T, email string) (token string, userID string) {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/v1/auth/magic-link", "", gin.H{"email": email})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	parsed, err := url.Parse(s.mailer.link)
	require.NoError(t, err)
	linkToken := parsed.Query().Get("token")
	require.NotEmpty(t, linkToken)

	w = s.do(t, http.MethodPost, "/api/v1/auth/callback", "", gin.H{"token": linkToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	signIn := data(t, w)
	token = signIn["access_token"].(string)
	profile := signIn["profile"].(map[string]interface{})
	return token, profile["id"].(string)
}
