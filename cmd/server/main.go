package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/payments"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// ERROR+ records are also batched into system_logs
	dbLogHandler := logging.NewDBHandler(db, logging.DBHandlerOptions{})
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewStdoutHandler(cfg.LogLevel),
		dbLogHandler,
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetentionDays, cleanupDone)

	// Services
	st := store.New(db)
	authService := services.NewAuthService(st, cfg)
	accessService := services.NewAccessService(st, cfg)
	workoutService := services.NewWorkoutService(st, cfg.DailyLimit)
	reportService := services.NewReportService(st)
	subscriptionService := services.NewSubscriptionService(
		st,
		payments.NewStripeCheckout(cfg.StripeSecretKey, cfg.PremiumPriceID),
		cfg.AppBaseURL,
	)
	processor := payments.NewProcessor(payments.NewStripeVerifier(cfg.StripeWebhookSecret), subscriptionService)

	if cfg.StripeWebhookSecret == "" {
		slog.Warn("STRIPE_WEBHOOK_SECRET not set, payment notifications will be rejected")
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(st)
	workoutHandler := handlers.NewWorkoutHandler(accessService, workoutService)
	reportHandler := handlers.NewReportHandler(accessService, reportService)
	checkoutHandler := handlers.NewCheckoutHandler(subscriptionService)
	webhookHandler := handlers.NewWebhookHandler(processor)
	adminHandler := handlers.NewAdminHandler(accessService)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, accessService,
		authHandler,
		healthHandler,
		workoutHandler,
		reportHandler,
		checkoutHandler,
		webhookHandler,
		adminHandler,
	)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "daily_limit", workoutService.DailyLimit())
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
