package tenant

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ScopeFrom extracts the request's tenant scope from Fiber context
// locals. Nil when the tenant middleware did not run.
func ScopeFrom(c *fiber.Ctx) *Scope {
	if scope, ok := c.Locals("tenant_scope").(*Scope); ok {
		return scope
	}
	return nil
}

// GetTenantID extracts the tenant id from Fiber context locals.
func GetTenantID(c *fiber.Ctx) string {
	if scope := ScopeFrom(c); scope != nil {
		return scope.TenantID()
	}
	return ""
}

// GetUserID extracts the user UUID from JWT claims in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}
