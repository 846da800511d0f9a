package handlers

import (
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/security"
	"github.com/gofiber/fiber/v2"
)

// ValidationHandler backs form input checks on the console.
type ValidationHandler struct{}

func NewValidationHandler() *ValidationHandler {
	return &ValidationHandler{}
}

func (h *ValidationHandler) TaxID(c *fiber.Ctx) error {
	var req dto.ValidateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	return c.JSON(dto.ValidateResponse{Valid: security.ValidTaxID(req.Value)})
}

func (h *ValidationHandler) CardNumber(c *fiber.Ctx) error {
	var req dto.ValidateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	return c.JSON(dto.ValidateResponse{Valid: security.ValidCardNumber(req.Value)})
}
