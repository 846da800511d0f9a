package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/billing"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
)

type BillingHandler struct {
	billingService *billing.Service
	catalog        *billing.Catalog
}

func NewBillingHandler(billingService *billing.Service, catalog *billing.Catalog) *BillingHandler {
	return &BillingHandler{billingService: billingService, catalog: catalog}
}

func (h *BillingHandler) ListPlans(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"plans": h.catalog.All()})
}

func (h *BillingHandler) CreateSubscription(c *fiber.Ctx) error {
	scope := tenant.ScopeFrom(c)
	if scope == nil {
		return tenantRequired(c)
	}

	var req dto.CreateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	sub, err := h.billingService.CreateSubscription(scope.TenantID(), actingUser(c), req.PlanID, req.PaymentMethod)
	if err != nil {
		return billingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

func (h *BillingHandler) CancelSubscription(c *fiber.Ctx) error {
	scope := tenant.ScopeFrom(c)
	if scope == nil {
		return tenantRequired(c)
	}

	if err := h.billingService.CancelSubscription(scope.TenantID(), actingUser(c)); err != nil {
		return billingError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Subscription will cancel at period end"})
}

func (h *BillingHandler) UpdateSubscription(c *fiber.Ctx) error {
	scope := tenant.ScopeFrom(c)
	if scope == nil {
		return tenantRequired(c)
	}

	var req dto.UpdateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	sub, err := h.billingService.UpdateSubscription(scope.TenantID(), actingUser(c), req.PlanID)
	if err != nil {
		return billingError(c, err)
	}
	return c.JSON(sub)
}

func (h *BillingHandler) GetSubscription(c *fiber.Ctx) error {
	scope := tenant.ScopeFrom(c)
	if scope == nil {
		return tenantRequired(c)
	}

	sub := h.billingService.Subscription(scope.TenantID())
	if sub == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "No subscription for tenant",
		})
	}
	return c.JSON(sub)
}

func (h *BillingHandler) StartTrial(c *fiber.Ctx) error {
	scope := tenant.ScopeFrom(c)
	if scope == nil {
		return tenantRequired(c)
	}

	var req dto.StartTrialRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	trial, err := h.billingService.StartTrial(scope.TenantID(), actingUser(c), req.PlanID, req.DurationDays)
	if err != nil {
		return billingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(trial)
}

func (h *BillingHandler) ConvertTrial(c *fiber.Ctx) error {
	scope := tenant.ScopeFrom(c)
	if scope == nil {
		return tenantRequired(c)
	}

	var req dto.ConvertTrialRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	sub, err := h.billingService.ConvertTrialToPaid(scope.TenantID(), actingUser(c), req.PlanID, req.PaymentMethod)
	if err != nil {
		return billingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// actingUser resolves the authenticated user for audit attribution.
// Empty on unauthenticated paths.
func actingUser(c *fiber.Ctx) string {
	id, err := tenant.GetUserID(c)
	if err != nil {
		return ""
	}
	return id.String()
}

func tenantRequired(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Tenant required",
	})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid request body",
	})
}

func billingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, billing.ErrPlanNotFound),
		errors.Is(err, billing.ErrSubscriptionNotFound),
		errors.Is(err, billing.ErrTrialNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
