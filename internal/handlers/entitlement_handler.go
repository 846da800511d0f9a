package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/entitlement"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/tenant"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/usage"
	"github.com/gofiber/fiber/v2"
)

type EntitlementHandler struct {
	engine      *entitlement.Engine
	tracker     *usage.Tracker
	warningDays int
}

func NewEntitlementHandler(engine *entitlement.Engine, tracker *usage.Tracker, warningDays int) *EntitlementHandler {
	return &EntitlementHandler{engine: engine, tracker: tracker, warningDays: warningDays}
}

// CheckFeature answers the feature gate for the request's tenant.
// Both the tenant-settings flag and the licensed feature must agree.
func (h *EntitlementHandler) CheckFeature(c *fiber.Ctx) error {
	scope := tenant.ScopeFrom(c)
	if scope == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Tenant required",
		})
	}

	flag := c.Params("flag")
	return c.JSON(dto.FeatureCheckResponse{
		Feature:    flag,
		Authorized: scope.Authorized(flag),
		Licensed:   h.engine.IsFeatureEnabled(scope.TenantID(), flag),
		Enabled:    scope.HasFeature(flag),
	})
}

// Usage reports current consumption, whether one more unit is allowed,
// and the percentage for progress bars.
func (h *EntitlementHandler) Usage(c *fiber.Ctx) error {
	scope := tenant.ScopeFrom(c)
	if scope == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Tenant required",
		})
	}

	resource := c.Params("resource")
	current := h.tracker.Get(scope.TenantID(), resource)
	allowed := h.engine.CheckUsageLimit(scope.TenantID(), resource, current) &&
		scope.CheckLimit(resource, current)

	return c.JSON(dto.UsageResponse{
		Resource:   resource,
		Current:    current,
		Allowed:    allowed,
		Percentage: scope.UsagePercentage(resource, current),
	})
}

// Status drives the license expiry banner.
func (h *EntitlementHandler) Status(c *fiber.Ctx) error {
	scope := tenant.ScopeFrom(c)
	if scope == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Tenant required",
		})
	}

	days, err := scope.RemainingDays()
	if err != nil {
		if errors.Is(err, entitlement.ErrLicenseNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "No license for tenant",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	lic := h.engine.License(scope.TenantID())
	if lic == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "No license for tenant",
		})
	}
	return c.JSON(dto.LicenseStatusResponse{
		TenantID:      scope.TenantID(),
		Status:        lic.Status,
		RemainingDays: days,
		ExpiringSoon:  scope.ExpiringSoon(h.warningDays),
	})
}
