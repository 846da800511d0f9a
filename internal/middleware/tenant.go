package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/entitlement"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Paths that don't require tenant identification.
var tenantSkipPaths = []string{
	"/api/health",
	"/api/webhooks/", // webhooks use :tenant_id path param instead
	"/api/validate/",
}

// TenantMiddleware resolves the request's tenant from JWT claims, the
// X-Tenant-ID header or the X-Tenant-Domain header, and stores a fresh
// per-request scope in context locals. Each request gets its own scope;
// there is no process-wide current tenant.
func TenantMiddleware(registry *tenant.Registry, engine *entitlement.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()

		for _, skip := range tenantSkipPaths {
			if strings.HasPrefix(path, skip) {
				return c.Next()
			}
		}

		// 1. JWT claim (already authenticated)
		if token, ok := c.Locals("user").(*jwt.Token); ok {
			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if tenantID, ok := claims["tenant_id"].(string); ok && tenantID != "" {
					if scope := registry.ScopeFor(tenantID, engine); scope != nil {
						c.Locals("tenant_scope", scope)
						return c.Next()
					}
				}
			}
		}

		// 2. X-Tenant-ID header
		if tenantID := c.Get("X-Tenant-ID"); tenantID != "" {
			scope := registry.ScopeFor(tenantID, engine)
			if scope == nil {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
					Error:   true,
					Message: "Invalid X-Tenant-ID: " + tenantID,
				})
			}
			c.Locals("tenant_scope", scope)
			return c.Next()
		}

		// 3. X-Tenant-Domain header (white-label console domains)
		if domain := c.Get("X-Tenant-Domain"); domain != "" {
			t := registry.ResolveByDomain(domain)
			if t == nil {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
					Error:   true,
					Message: "Unknown tenant domain: " + domain,
				})
			}
			c.Locals("tenant_scope", tenant.NewScope(t, engine))
			return c.Next()
		}

		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "X-Tenant-ID or X-Tenant-Domain header is required",
		})
	}
}
