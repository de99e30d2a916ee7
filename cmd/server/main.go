package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"courier/internal/app"
	"courier/internal/auth"
	"courier/internal/config"
	"courier/internal/handler"
	"courier/internal/rabbitmq"
	internalRedis "courier/internal/redis"
	"courier/internal/repository/postgres"
	"courier/internal/service"
	"courier/internal/tracking"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := app.NewLogger(cfg.Server)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Warn("failed to initialize New Relic", zap.Error(err))
		} else {
			logger.Info("New Relic enabled", zap.String("app", cfg.NewRelic.AppName))
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("connected to Redis")

	// Events go to RabbitMQ when enabled, otherwise only to the log.
	var publisher service.EventPublisher
	if cfg.RabbitMQ.Enabled {
		rabbit, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logger)
		if err != nil {
			logger.Fatal("failed to connect to rabbitmq", zap.Error(err))
		}
		defer rabbit.Close()
		publisher = rabbit
		logger.Info("connected to RabbitMQ", zap.String("exchange", cfg.RabbitMQ.Exchange))
	}

	// Wire dependencies.
	srv, err := wireServer(ctx, db, redisClient, publisher, nrApp, cfg, logger)
	if err != nil {
		logger.Fatal("failed to wire server", zap.Error(err))
	}
	defer srv.tracking.Shutdown()

	// Start server in goroutine.
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))
		if err := srv.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.http.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	logger.Info("server exited")
}

type server struct {
	http     *http.Server
	tracking *service.TrackingService
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	ctx context.Context,
	db *sql.DB,
	redisClient *redis.Client,
	publisher service.EventPublisher,
	nrApp *newrelic.Application,
	cfg *config.Config,
	logger *zap.Logger,
) (*server, error) {
	// Initialize Redis stores.
	locationStore := internalRedis.NewLocationStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient, cfg.Routing.CacheTTL)

	// Initialize repositories.
	bookingRepo := postgres.NewBookingRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	userRepo := postgres.NewUserRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	adminRepo := postgres.NewAdminRepository(db)

	// External collaborators.
	routes := tracking.NewGeoapifyClient(cfg.Routing.GeoapifyKey,
		tracking.WithBaseURL(cfg.Routing.GeoapifyBaseURL),
		tracking.WithHTTPClient(&http.Client{Timeout: cfg.Routing.RequestTimeout}),
	)
	tokens, err := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, err
	}

	// Initialize services.
	notificationService := service.NewNotificationService(publisher, logger.Named("events"))
	bookingService := service.NewBookingService(bookingRepo, cacheStore, notificationService, logger)
	transactionService := service.NewTransactionService(db, transactionRepo, userRepo, notificationService)
	paymentService := service.NewPaymentService(db, bookingRepo, transactionRepo, lockStore, service.NewMockGateway(),
		cacheStore, notificationService, logger)
	profileService := service.NewProfileService(profileRepo)
	receiptService := service.NewReceiptService(bookingRepo, transactionRepo)
	trackingService := service.NewTrackingService(bookingRepo, routes, cacheStore, locationStore, notificationService,
		service.TrackingConfig{Stride: cfg.Tracking.Stride, Interval: cfg.Tracking.Interval}, logger.Named("tracking"))
	adminService := service.NewAdminService(adminRepo, bookingRepo, transactionRepo, userRepo, bookingService, tokens)

	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		admin, err := adminService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, "Administrator", cfg.Auth.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
		logger.Info("admin account ready", zap.String("email", admin.Email))
	}

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		BookingHandler:     handler.NewBookingHandler(bookingService),
		TransactionHandler: handler.NewTransactionHandler(transactionService),
		PaymentHandler:     handler.NewPaymentHandler(paymentService),
		ProfileHandler:     handler.NewProfileHandler(profileService),
		TrackingHandler:    handler.NewTrackingHandler(trackingService),
		ReceiptHandler:     handler.NewReceiptHandler(receiptService),
		AdminHandler:       handler.NewAdminHandler(adminService),
		TokenVerifier:      tokens,
		RedisClient:        redisClient,
		NewRelicApp:        nrApp,
		Logger:             logger,
		Server:             cfg.Server,
		RateLimit:          cfg.RateLimit,
	})

	// Create HTTP server.
	return &server{
		http: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		tracking: trackingService,
	}, nil
}
