package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/kudos/backend/internal/application/identity"
	notificationapp "github.com/kudos/backend/internal/application/notification"
	recognitionapp "github.com/kudos/backend/internal/application/recognition"
	"github.com/kudos/backend/internal/domain/recognition"
	"github.com/kudos/backend/internal/infrastructure/auth"
	"github.com/kudos/backend/internal/infrastructure/config"
	"github.com/kudos/backend/internal/infrastructure/event"
	"github.com/kudos/backend/internal/infrastructure/logger"
	"github.com/kudos/backend/internal/infrastructure/mail"
	"github.com/kudos/backend/internal/infrastructure/persistence"
	"github.com/kudos/backend/internal/infrastructure/storage"
	"github.com/kudos/backend/internal/interfaces/http/handler"
	"github.com/kudos/backend/internal/interfaces/http/middleware"
	"github.com/kudos/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Kudos Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Token blacklist backs both logout and single-use magic links.
	// Redis in any shared deployment; in-memory only as a dev fallback.
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		log.Info("Redis connected successfully")
	}

	// Object storage for avatars
	var objects storage.ObjectStorage
	if cfg.Storage.Endpoint != "" || cfg.Storage.AccessKey != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objects = s3Storage
	} else {
		log.Warn("Object storage not configured, avatars held in memory")
		objects = storage.NewMemoryObjectStorage(cfg.App.BaseURL + "/avatars")
	}

	// Outbound mail for sign-in links
	var mailer mail.Mailer
	if cfg.Mail.Host != "" {
		mailer = mail.NewSMTPMailer(cfg.Mail)
	} else {
		log.Warn("Mail not configured, sign-in links are logged instead")
		mailer = mail.NewLogMailer(log)
	}

	// Initialize repositories
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	accessRequestRepo := persistence.NewGormAccessRequestRepository(db.DB)
	allowanceRepo := persistence.NewGormAllowanceRepository(db.DB)
	postRepo := persistence.NewGormPostRepository(db.DB, allowanceRepo)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	eventSerializer.Register(recognition.EventTypePostCreated, &recognition.PostCreatedEvent{})

	// Create outbox publisher for transactional event saving
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	postRepo.SetOutboxEventSaver(outboxPublisher)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(profileRepo, jwtService, blacklist, mailer, cfg.App.BaseURL, log)
	profileService := identityapp.NewProfileService(profileRepo, objects, log)
	accessRequestService := identityapp.NewAccessRequestService(accessRequestRepo, profileRepo, log)
	transferService := recognitionapp.NewTransferService(postRepo, allowanceRepo, profileRepo, log)
	timelineService := recognitionapp.NewTimelineService(postRepo, profileRepo, log)
	rankingService := recognitionapp.NewRankingService(postRepo, profileRepo, log)
	broadcaster := notificationapp.NewBroadcaster(log)
	notificationService := notificationapp.NewNotificationService(notificationRepo, postRepo, profileRepo, log)

	// Initialize event bus and the notification fan-out handler
	eventBus := event.NewInMemoryEventBus(log)
	postCreatedHandler := notificationapp.NewPostCreatedHandler(notificationRepo, profileRepo, broadcaster, log)
	eventBus.Subscribe(postCreatedHandler)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor delivers post-created events to the bus with retry
	outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
	if cfg.Outbox.BatchSize > 0 {
		outboxProcessorConfig.BatchSize = cfg.Outbox.BatchSize
	}
	if cfg.Outbox.PollInterval > 0 {
		outboxProcessorConfig.PollInterval = cfg.Outbox.PollInterval
	}
	outboxProcessorConfig.CleanupEnabled = cfg.Outbox.CleanupEnabled
	if cfg.Outbox.CleanupRetention > 0 {
		outboxProcessorConfig.CleanupRetention = cfg.Outbox.CleanupRetention
	}
	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
	if err := outboxProcessor.Start(context.Background()); err != nil {
		log.Fatal("Failed to start outbox processor", zap.Error(err))
	}
	defer func() {
		if err := outboxProcessor.Stop(context.Background()); err != nil {
			log.Error("Error stopping outbox processor", zap.Error(err))
		}
	}()
	log.Info("Outbox processor started",
		zap.Int("batch_size", outboxProcessorConfig.BatchSize),
		zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
	)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, profileService)
	profileHandler := handler.NewProfileHandler(profileService)
	accessRequestHandler := handler.NewAccessRequestHandler(accessRequestService)
	postHandler := handler.NewPostHandler(transferService, timelineService)
	rankingHandler := handler.NewRankingHandler(rankingService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	streamHandler := handler.NewNotificationStreamHandler(broadcaster, log)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, request logging,
	// security headers, CORS, body limit, then rate limiting
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.JWTMiddlewareConfig{
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
	}
	r.Use(middleware.JWTAuthMiddleware(jwtConfig))

	// Authentication (magic-link sign-in)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/magic-link", authHandler.RequestMagicLink)
	authRoutes.POST("/callback", authHandler.VerifyMagicLink)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)

	// Profiles
	profileRoutes := router.NewDomainGroup("profile", "")
	profileRoutes.GET("/profile", profileHandler.GetProfile)
	profileRoutes.PATCH("/profile", profileHandler.UpdateProfile)
	profileRoutes.POST("/profile/avatar", profileHandler.UploadAvatar)
	profileRoutes.GET("/profiles", profileHandler.ListProfiles)
	profileRoutes.GET("/profiles/recipients", profileHandler.ListRecipients)

	// Access requests (public)
	accessRoutes := router.NewDomainGroup("access-requests", "/access-requests")
	accessRoutes.POST("", accessRequestHandler.Submit)

	// Thanks posts, timeline, and allowance
	postRoutes := router.NewDomainGroup("posts", "")
	postRoutes.POST("/posts", postHandler.SendThanks)
	postRoutes.GET("/posts", postHandler.ListTimeline)
	postRoutes.GET("/allowance", postHandler.GetAllowance)

	// Monthly leaderboards
	rankingRoutes := router.NewDomainGroup("ranking", "/ranking")
	rankingRoutes.GET("", rankingHandler.GetMonthlyRanking)

	// Notifications (polling + SSE push)
	notificationRoutes := router.NewDomainGroup("notifications", "/notifications")
	notificationRoutes.GET("", notificationHandler.List)
	notificationRoutes.GET("/unread", notificationHandler.UnreadStatus)
	notificationRoutes.GET("/stream", streamHandler.Stream)
	notificationRoutes.POST("/:id/read", notificationHandler.MarkRead)
	notificationRoutes.POST("/read-all", notificationHandler.MarkAllRead)

	// System
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/health", systemHandler.Health)

	r.Register(authRoutes).
		Register(profileRoutes).
		Register(accessRoutes).
		Register(postRoutes).
		Register(rankingRoutes).
		Register(notificationRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
