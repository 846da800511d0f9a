package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/audit"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/billing"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/entitlement"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/payments"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/ratelimit"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/security"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/tenant"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/usage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	// Tenant store
	registry, err := tenant.LoadFromFile(cfg.TenantsConfigPath)
	if err != nil {
		slog.Error("failed to load tenants", "path", cfg.TenantsConfigPath, "error", err)
		os.Exit(1)
	}
	slog.Info("tenants loaded", "tenants", len(registry.All()))

	// Plan catalog
	catalog, err := billing.LoadCatalog(cfg.PlansConfigPath)
	if err != nil {
		slog.Error("failed to load plan catalog", "path", cfg.PlansConfigPath, "error", err)
		os.Exit(1)
	}
	slog.Info("plan catalog loaded", "plans", len(catalog.All()))

	// Audit persistence (optional; in-memory log always runs). The
	// encryption key is required here: persisted audit details are
	// sealed at rest.
	var auditSink audit.Sink
	var dbSink *audit.DBSink
	cleanupDone := make(chan struct{})
	if cfg.DBPassword != "" {
		encKey, err := cfg.EncryptionKeyBytes()
		if err != nil {
			slog.Error("invalid encryption key", "error", err)
			os.Exit(1)
		}
		if err := database.Connect(cfg); err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		dbSink = audit.NewDBSink(database.DB, encKey)
		auditSink = dbSink
		audit.StartCleanup(database.DB, cfg.AuditRetentionDays, cleanupDone)
	} else {
		slog.Warn("DB_PASSWORD not set, audit persistence disabled")
	}

	// Core services
	auditLog := audit.NewLog(auditSink)
	engine := entitlement.NewEngine()
	tracker := usage.NewTracker()
	limiter := ratelimit.New()
	issuer := security.NewTokenIssuer(cfg.JWTSecret)
	dataManager := tenant.NewDataManager()

	var notifier billing.Notifier = payments.NewLogNotifier()
	if cfg.TenantAPIBaseURL != "" {
		notifier = payments.NewWebhookNotifier(tenant.NewAPIClient(cfg.TenantAPIBaseURL), registry, engine)
	}

	billingService := billing.NewService(catalog, payments.NewGateway(), notifier, auditLog, engine, tracker)
	authService := services.NewAuthService(cfg, issuer, limiter, auditLog)

	// Tenant deletion drops billing state, the license, usage counters
	// and the tenant's data namespace.
	registry.OnRemove(billingService.RemoveTenant)
	registry.OnRemove(dataManager.Purge)

	// Trial expiry sweep
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := billingService.ExpireTrials(); n > 0 {
					slog.Info("trials expired", "count", n)
				}
			case <-cleanupDone:
				return
			}
		}
	}()

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(registry)
	entitlementHandler := handlers.NewEntitlementHandler(engine, tracker, cfg.ExpiryWarningDays)
	billingHandler := handlers.NewBillingHandler(billingService, catalog)
	webhookHandler := handlers.NewWebhookHandler(billingService, registry, cfg)
	auditHandler := handlers.NewAuditHandler(auditLog)
	validationHandler := handlers.NewValidationHandler()
	tenantHandler := handlers.NewTenantHandler(registry, dataManager, auditLog)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
			slog.SetDefault(slog.New(logging.NewMultiHandler(
				slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logging.ParseLevel(cfg.LogLevel)}),
				logging.NewSentryHandler(),
			)))
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})
	app.Use(middleware.TenantMiddleware(registry, engine))

	// Routes
	routes.Setup(app, cfg, authHandler, healthHandler, entitlementHandler, billingHandler, webhookHandler, auditHandler, validationHandler, tenantHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	if dbSink != nil {
		dbSink.Stop()
	}
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if database.DB != nil {
		if sqlDB, err := database.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("database close error", "error", err)
			}
		}
	}

	slog.Info("server stopped")
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
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
