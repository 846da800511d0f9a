package handlers

import (
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/audit"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
)

// TenantHandler exposes the tenant data namespace to authenticated
// requests and tenant lifecycle operations to admins.
type TenantHandler struct {
	registry *tenant.Registry
	data     *tenant.DataManager
	auditLog *audit.Log
}

func NewTenantHandler(registry *tenant.Registry, data *tenant.DataManager, auditLog *audit.Log) *TenantHandler {
	return &TenantHandler{registry: registry, data: data, auditLog: auditLog}
}

// Delete removes a tenant entirely. The registry's teardown hooks drop
// the license, billing state, usage counters, and data namespace.
// Admin only.
func (h *TenantHandler) Delete(c *fiber.Ctx) error {
	tenantID := c.Params("tenant_id")
	if !h.registry.Exists(tenantID) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Unknown tenant: " + tenantID,
		})
	}

	h.registry.Remove(tenantID)
	h.auditLog.Append(tenantID, actingUser(c), "tenant.deleted", "tenant", tenantID, nil, c.IP(), c.Get("User-Agent"))
	return c.JSON(fiber.Map{"message": "Tenant deleted"})
}

// SetData writes a key in the calling tenant's data namespace.
func (h *TenantHandler) SetData(c *fiber.Ctx) error {
	scope := tenant.ScopeFrom(c)
	if scope == nil {
		return tenantRequired(c)
	}

	var req dto.SetDataRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	h.data.SetData(scope.TenantID(), c.Params("key"), req.Value)
	return c.JSON(fiber.Map{"message": "Stored"})
}

// GetData reads a key from the calling tenant's data namespace.
func (h *TenantHandler) GetData(c *fiber.Ctx) error {
	scope := tenant.ScopeFrom(c)
	if scope == nil {
		return tenantRequired(c)
	}

	value, ok := h.data.GetData(scope.TenantID(), c.Params("key"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Key not found",
		})
	}
	return c.JSON(fiber.Map{"key": c.Params("key"), "value": value})
}

// DeleteData drops a key from the calling tenant's data namespace.
func (h *TenantHandler) DeleteData(c *fiber.Ctx) error {
	scope := tenant.ScopeFrom(c)
	if scope == nil {
		return tenantRequired(c)
	}

	h.data.DeleteData(scope.TenantID(), c.Params("key"))
	return c.JSON(fiber.Map{"message": "Deleted"})
}
