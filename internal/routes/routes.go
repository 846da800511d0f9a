package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	entitlementHandler *handlers.EntitlementHandler,
	billingHandler *handlers.BillingHandler,
	webhookHandler *handlers.WebhookHandler,
	auditHandler *handlers.AuditHandler,
	validationHandler *handlers.ValidationHandler,
	tenantHandler *handlers.TenantHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (no tenant required)
	api.Get("/health", healthHandler.Check)

	// Form validators (no tenant required)
	api.Post("/validate/tax-id", validationHandler.TaxID)
	api.Post("/validate/card", validationHandler.CardNumber)

	// Auth — public (tenant middleware already applied globally)
	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Entitlements (protected)
	api.Get("/entitlements/features/:flag", middleware.JWTProtected(cfg), entitlementHandler.CheckFeature)
	api.Get("/entitlements/usage/:resource", middleware.JWTProtected(cfg), entitlementHandler.Usage)
	api.Get("/entitlements/status", middleware.JWTProtected(cfg), entitlementHandler.Status)

	// Billing (protected)
	api.Get("/billing/plans", billingHandler.ListPlans)
	api.Get("/billing/subscription", middleware.JWTProtected(cfg), billingHandler.GetSubscription)
	api.Post("/billing/subscriptions", middleware.JWTProtected(cfg), billingHandler.CreateSubscription)
	api.Delete("/billing/subscription", middleware.JWTProtected(cfg), billingHandler.CancelSubscription)
	api.Put("/billing/subscription", middleware.JWTProtected(cfg), billingHandler.UpdateSubscription)
	api.Post("/billing/trials", middleware.JWTProtected(cfg), billingHandler.StartTrial)
	api.Post("/billing/trials/convert", middleware.JWTProtected(cfg), billingHandler.ConvertTrial)

	// Tenant data namespace (protected)
	api.Put("/tenant/data/:key", middleware.JWTProtected(cfg), tenantHandler.SetData)
	api.Get("/tenant/data/:key", middleware.JWTProtected(cfg), tenantHandler.GetData)
	api.Delete("/tenant/data/:key", middleware.JWTProtected(cfg), tenantHandler.DeleteData)

	// Admin: audit log view and tenant lifecycle (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(cfg))
	admin.Get("/audit", auditHandler.Query)
	admin.Delete("/tenants/:tenant_id", tenantHandler.Delete)

	// Webhooks — per-tenant path param, shared-token auth (no JWT)
	api.Post("/webhooks/payments/:tenant_id", webhookHandler.HandlePayment)
}
