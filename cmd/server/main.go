package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	agentapp "github.com/taponce/backend/internal/application/agent"
	catalogapp "github.com/taponce/backend/internal/application/catalog"
	customerapp "github.com/taponce/backend/internal/application/customer"
	draftapp "github.com/taponce/backend/internal/application/draft"
	eventapp "github.com/taponce/backend/internal/application/event"
	financeapp "github.com/taponce/backend/internal/application/finance"
	identityapp "github.com/taponce/backend/internal/application/identity"
	notificationapp "github.com/taponce/backend/internal/application/notification"
	orderapp "github.com/taponce/backend/internal/application/order"
	printingapp "github.com/taponce/backend/internal/application/printing"
	uploadapp "github.com/taponce/backend/internal/application/upload"
	"github.com/taponce/backend/internal/domain/order"
	"github.com/taponce/backend/internal/infrastructure/auth"
	"github.com/taponce/backend/internal/infrastructure/cache"
	"github.com/taponce/backend/internal/infrastructure/config"
	"github.com/taponce/backend/internal/infrastructure/event"
	"github.com/taponce/backend/internal/infrastructure/logger"
	"github.com/taponce/backend/internal/infrastructure/persistence"
	"github.com/taponce/backend/internal/infrastructure/printing"
	"github.com/taponce/backend/internal/infrastructure/scheduler"
	"github.com/taponce/backend/internal/infrastructure/storage"
	"github.com/taponce/backend/internal/infrastructure/telemetry"
	"github.com/taponce/backend/internal/interfaces/http/handler"
	"github.com/taponce/backend/internal/interfaces/http/middleware"
	"github.com/taponce/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "github.com/taponce/backend/docs"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

const (
	shutdownTimeout       = 30 * time.Second
	eventDedupTTL         = 24 * time.Hour
	storeConnectTimeout   = 5 * time.Second
	telemetryFlushTimeout = 5 * time.Second
)

//	@title			TapOnce API
//	@version		1.0
//	@description	NFC business card storefront, agent network and order operations.

//	@contact.name	TapOnce Engineering
//	@contact.email	engineering@taponce.in

//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Access token. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting TapOnce backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Tracing is a no-op provider unless telemetry is enabled
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		defer cancel()
		if err := tracerProvider.Shutdown(flushCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()
	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		defer cancel()
		if err := logProvider.Shutdown(flushCtx); err != nil {
			log.Error("Error shutting down log exporter", zap.Error(err))
		}
	}()
	log = logProvider.Bridge(log, logger.ParseLevel(cfg.Log.Level))
	metrics := telemetry.NewMetrics()

	// Business metrics are also pushed over OTLP when configured
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		defer cancel()
		if err := meterProvider.Shutdown(flushCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Database with SQL logged through zap
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
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

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry.DBSlowQueryThresh, log); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Redis backs drafts, idempotency keys and revoked tokens. Outside
	// production a missing Redis degrades to in-memory stores.
	storeCtx, cancelStores := context.WithTimeout(ctx, storeConnectTimeout)
	stores, err := cache.NewStores(storeCtx, cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	)
	cancelStores()
	if err != nil {
		log.Fatal("Failed to initialize Redis stores", zap.Error(err))
	}
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if stores.Client != nil {
		blacklist = auth.NewRedisTokenBlacklist(stores.Client)
		defer func() {
			if err := stores.Client.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
	}

	objects, err := newObjectStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Initialize repositories
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	agentRepo := persistence.NewGormAgentRepository(db.DB)
	ledger := persistence.NewGormBalanceLedger(db.DB)
	designRepo := persistence.NewGormCardDesignRepository(db.DB)
	mspRepo := persistence.NewGormAgentMspRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	payoutRepo := persistence.NewGormPayoutRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(profileRepo, customerRepo, agentRepo, scope, jwtService, blacklist, log)

	agentService := agentapp.NewAgentService(agentapp.Repositories{
		Agents:   agentRepo,
		Profiles: profileRepo,
		Payouts:  payoutRepo,
		Designs:  designRepo,
		Msps:     mspRepo,
		Orders:   orderRepo,
	}, scope, agentapp.ServiceConfig{
		PublicURL:      cfg.App.PublicURL,
		ClaimTokenTTL:  cfg.App.ClaimTokenTTL,
		CreditOverride: cfg.Commission.CreditOverride,
	}, log)
	payoutService := agentapp.NewPayoutService(payoutRepo, agentRepo, scope, log)
	auditService := agentapp.NewBalanceAuditService(agentRepo, ledger, metrics, log)

	orderService := orderapp.NewOrderService(orderapp.Repositories{
		Orders:    orderRepo,
		Query:     orderRepo,
		Designs:   designRepo,
		Msps:      mspRepo,
		Agents:    agentRepo,
		Customers: customerRepo,
	}, scope, orderapp.ServiceConfig{
		Policy: order.CommissionPolicy{
			BaseAmount:   cfg.Commission.BaseAmount,
			BonusRate:    cfg.Commission.BonusRate,
			OverrideRate: cfg.Commission.OverrideRate,
		},
		CreditOverride: cfg.Commission.CreditOverride,
		ClaimTokenTTL:  cfg.App.ClaimTokenTTL,
		IdempotencyTTL: cfg.Draft.TTL,
		PublicURL:      cfg.App.PublicURL,
	}, log)
	orderService.SetDraftStore(stores.Drafts)
	orderService.SetIdempotencyStore(stores.Idempotency)
	orderService.SetProofURLResolver(objects)
	boardService := orderapp.NewBoardService(orderRepo, orderService, log)

	designService := catalogapp.NewDesignService(designRepo, mspRepo, log)
	profileService := customerapp.NewProfileService(customerRepo, cfg.App.PublicURL, cfg.App.APIURL, log)
	draftService := draftapp.NewDraftService(stores.Drafts, designRepo, cfg.Draft.TTL, log)
	expenseService := financeapp.NewExpenseService(expenseRepo, log)
	notificationService := notificationapp.NewNotificationService(notificationRepo, log)
	uploadService := uploadapp.NewUploadService(objects, log)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Inbox entries are deduplicated on event ID so a republished event
	// never notifies twice
	notificationCreator := event.NewIdempotentHandler(
		notificationapp.NewNotificationCreator(notificationService, profileRepo, agentRepo, log),
		stores.Idempotency, eventDedupTTL, log,
	)
	eventBus.Subscribe(notificationCreator)

	if cfg.Telemetry.MetricsEnabled {
		eventBus.Subscribe(eventapp.NewMetricsHandler(metrics))
	}
	if meterProvider.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(meterProvider.Meter("taponce"))
		if err != nil {
			log.Fatal("Failed to create business metrics", zap.Error(err))
		}
		eventBus.Subscribe(eventapp.NewMetricsHandler(businessMetrics))
	}

	if cfg.Printing.ProofEnabled {
		renderer := printing.NewChromedpRenderer(printing.ChromedpConfig{
			ExecPath:  cfg.Printing.ChromePath,
			Timeout:   cfg.Printing.Timeout,
			NoSandbox: true,
		}, log)
		defer renderer.Close()

		proofService := printingapp.NewProofService(
			orderRepo, customerRepo, designRepo,
			printing.NewProofGenerator(renderer, objects, log),
			orderService, cfg.App.PublicURL, log,
		)
		eventBus.Subscribe(printingapp.NewProofHandler(proofService, log))
		log.Info("Print proof generation enabled")
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	authService.SetEventPublisher(eventBus)
	agentService.SetEventPublisher(eventBus)
	payoutService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)

	// Background jobs
	if cfg.Jobs.Enabled {
		jobs := scheduler.New(scheduler.Config{JobTimeout: cfg.Jobs.JobTimeout}, log)
		if err := jobs.Register(cfg.Jobs.BalanceAuditCron, auditService); err != nil {
			log.Fatal("Failed to register balance audit job", zap.Error(err))
		}
		jobs.Start()
		defer func() {
			if err := jobs.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		log.Info("Scheduler started", zap.String("balance_audit", cfg.Jobs.BalanceAuditCron))
	}

	// Initialize HTTP handlers
	orderHandler := handler.NewOrderHandler(orderService, agentService)
	orderHandler.SetConflictRecorder(metrics)

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version).
		AddCheck("database", db.PingContext)
	if stores.Client != nil {
		systemHandler.AddCheck("redis", func(ctx context.Context) error {
			return stores.Client.Ping(ctx).Err()
		})
	}

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Agent:        handler.NewAgentHandler(agentService, auditService),
		AgentPortal:  handler.NewAgentPortalHandler(agentService, orderService, payoutService),
		Payout:       handler.NewPayoutHandler(payoutService),
		Order:        orderHandler,
		Board:        handler.NewBoardHandler(boardService),
		Design:       handler.NewDesignHandler(designService, agentService),
		Expense:      handler.NewExpenseHandler(expenseService),
		Notification: handler.NewNotificationHandler(notificationService),
		Upload:       handler.NewUploadHandler(uploadService),
		Profile:      handler.NewProfileHandler(profileService),
		Draft:        handler.NewDraftHandler(draftService),
		System:       systemHandler,
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Root span per request (no-op when disabled)
	// 3. Recovery - Catch panics
	// 4. Logger - Log requests
	// 5. Metrics - Prometheus request counters
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.MetricsEnabled {
		engine.Use(middleware.HTTPMetrics(metrics))
	}
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.SpanErrorMarker())
	}

	// Health and metrics endpoints (outside the API base path)
	engine.GET("/health", systemHandler.Health)
	if cfg.Telemetry.MetricsEnabled {
		engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// Public funnel endpoints share one limiter keyed by client IP
	var publicLimit gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow, cfg.HTTP.RateLimitBurst)
		defer limiter.Stop()
		publicLimit = middleware.RateLimit(limiter)
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	var afterAuth gin.HandlerFunc
	if cfg.Telemetry.Enabled {
		afterAuth = middleware.TracingAttributeInjector()
	}

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		Revocation: authService,
		Logger:     log,
	}
	// API documentation, guarded per swagger.* settings
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, middleware.JWTAuth(jwtConfig)),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	router.NewRouter(engine).
		RegisterAll(router.DomainGroups(handlers, router.Guards{
			Authenticate: middleware.JWTAuth(jwtConfig),
			Identify:     middleware.OptionalJWTAuth(jwtConfig),
			PublicLimit:  publicLimit,
			AfterAuth:    afterAuth,
		})).
		Setup()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// newObjectStorage returns the S3 store when storage is enabled. Without it
// uploads and proofs live in memory, which only suits local development.
func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.ObjectStorage, error) {
	if !cfg.Storage.Enabled {
		log.Warn("Object storage disabled, keeping uploads in memory")
		return storage.NewMemoryObjectStorage(cfg.App.APIURL + "/files"), nil
	}

	s3Store, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage,
		storage.WithLogger(log),
		storage.WithPresignExpiration(cfg.Storage.PresignExpiry),
	)
	if err != nil {
		return nil, err
	}
	if err := s3Store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s3Store, nil
}
