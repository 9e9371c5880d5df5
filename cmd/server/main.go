package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"transfera/internal/app"
	"transfera/internal/config"
	"transfera/internal/event"
	"transfera/internal/handler"
	internalRedis "transfera/internal/redis"
	"transfera/internal/repository/postgres"
	"transfera/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	logger, err := app.NewLogger(os.Getenv("ENV"))
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

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

	// Apply schema migrations.
	if err := app.Migrate(ctx, db); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("connected to Redis")

	// Optional event publisher.
	var publisher *event.Publisher
	if cfg.Kafka.Brokers != "" {
		publisher = event.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer publisher.Close()
		logger.Info("event publishing enabled", zap.String("topic", cfg.Kafka.Topic))
	}

	// Wire dependencies.
	server := wireServer(db, redisClient, publisher, nrApp, cfg, logger)

	// Start server in goroutine.
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	db *sql.DB,
	redisClient *redis.Client,
	publisher *event.Publisher,
	nrApp *newrelic.Application,
	cfg *config.Config,
	logger *zap.Logger,
) *http.Server {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	rateLimiter := internalRedis.NewRateLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Initialize services.
	var pub service.PublisherInterface
	if publisher != nil {
		pub = publisher
	}
	notificationService := service.NewNotificationService(notificationRepo, pub, logger)
	pricingService := service.NewPricingService()
	assignmentService := service.NewAssignmentService(db, lockStore, driverRepo, bookingRepo, logger)
	bookingService := service.NewBookingService(bookingRepo, driverRepo, userRepo, pricingService, assignmentService, notificationService)
	driverService := service.NewDriverService(driverRepo, vehicleRepo)

	// Initialize handlers.
	authHandler := handler.NewAuthHandler(userRepo, cfg.Auth)
	bookingHandler := handler.NewBookingHandler(bookingService)
	driverHandler := handler.NewDriverHandler(driverService, driverRepo)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		AuthHandler:         authHandler,
		BookingHandler:      bookingHandler,
		DriverHandler:       driverHandler,
		NotificationHandler: notificationHandler,
		RedisClient:         redisClient,
		RateLimiter:         rateLimiter,
		NewRelicApp:         nrApp,
		JWTSecret:           []byte(cfg.Auth.JWTSecret),
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
