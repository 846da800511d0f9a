package handlers

import (
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/billing"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
)

type WebhookHandler struct {
	billingService *billing.Service
	registry       *tenant.Registry
	webhookToken   string
}

func NewWebhookHandler(billingService *billing.Service, registry *tenant.Registry, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{
		billingService: billingService,
		registry:       registry,
		webhookToken:   cfg.AdminToken,
	}
}

// HandlePayment reconciles asynchronous payment outcomes from the
// provider. Routed by :tenant_id path param; no JWT, the shared
// webhook token authenticates the caller.
func (h *WebhookHandler) HandlePayment(c *fiber.Ctx) error {
	tenantID := c.Params("tenant_id")
	if tenantID == "" || !h.registry.Exists(tenantID) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Unknown tenant",
		})
	}

	if h.webhookToken == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Webhooks not configured",
		})
	}
	authHeader := c.Get("Authorization")
	if subtle.ConstantTimeCompare([]byte(authHeader), []byte(h.webhookToken)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var webhook dto.PaymentWebhook
	if err := c.BodyParser(&webhook); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid webhook payload",
		})
	}

	if err := h.billingService.HandlePaymentEvent(tenantID, webhook.Event.Type); err != nil {
		if errors.Is(err, billing.ErrSubscriptionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "No subscription for tenant",
			})
		}
		slog.Error("webhook processing failed", "tenant_id", tenantID, "event_type", webhook.Event.Type, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process webhook event",
		})
	}

	slog.Info("webhook processed", "tenant_id", tenantID, "event_type", webhook.Event.Type)
	return c.JSON(fiber.Map{"received": true})
}
