package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/config"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/database"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/logging"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/models"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/routes"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/services"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/store"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/store/mongostore"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/store/pgstore"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/store/s3store"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const startupTimeout = 30 * time.Second

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.MigrateModels(ctx, db, &models.SystemLog{}); err != nil {
		slog.Error("system log migration failed", "error", err)
		os.Exit(1)
	}

	identityStore := pgstore.NewIdentityStore(db, cfg.UniquePhone())
	if err := identityStore.Migrate(ctx); err != nil {
		slog.Error("identity store migration failed", "error", err)
		os.Exit(1)
	}

	blobStore, closeBlobStore, err := openBlobStore(ctx, cfg, db)
	if err != nil {
		slog.Error("blob store setup failed", "backend", cfg.BlobBackend, "error", err)
		os.Exit(1)
	}
	slog.Info("blob store ready", "backend", cfg.BlobBackend)

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewJSONHandler(os.Stdout),
		pgLogHandler,
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetention, cleanupDone)

	// Services
	registrationService := services.NewRegistrationService(identityStore, blobStore, services.RegistrationOptions{
		UniquePhone: cfg.UniquePhone(),
		BcryptCost:  cfg.BcryptCost,
	})

	// Handlers
	registrationHandler := handlers.NewRegistrationHandler(registrationService, cfg)
	userHandler := handlers.NewUserHandler(registrationService)
	healthHandler := handlers.NewHealthHandler(func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}, blobStore, cfg.BlobBackend)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app. The body limit leaves room for the form fields around the
	// picture itself.
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.MaxUploadBytes + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${respHeader:X-Request-ID}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, registrationHandler, userHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := app.Listen(cfg.Addr()); err != nil {
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
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := closeBlobStore(shutdownCtx); err != nil {
		slog.Error("blob store close error", "error", err)
	}
	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

// openBlobStore builds the configured picture backend and its teardown.
func openBlobStore(ctx context.Context, cfg *config.Config, db *gorm.DB) (store.BlobStore, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.BlobBackend {
	case config.BlobBackendPostgres:
		s := pgstore.NewBlobStore(db)
		if err := s.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		return s, noop, nil

	case config.BlobBackendMongo:
		s, err := mongostore.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, nil, err
		}
		return s, s.Close, nil

	case config.BlobBackendS3:
		s, err := s3store.Connect(ctx, s3store.Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Prefix:    cfg.S3Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	}
	return nil, nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"trace_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
