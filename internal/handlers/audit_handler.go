package handlers

import (
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/audit"
	"github.com/gofiber/fiber/v2"
)

type AuditHandler struct {
	auditLog *audit.Log
}

func NewAuditHandler(auditLog *audit.Log) *AuditHandler {
	return &AuditHandler{auditLog: auditLog}
}

// Query returns audit records filtered by tenant_id, user_id and action
// query params, in insertion order. Admin only.
func (h *AuditHandler) Query(c *fiber.Ctx) error {
	records := h.auditLog.Query(audit.Filter{
		TenantID: c.Query("tenant_id"),
		UserID:   c.Query("user_id"),
		Action:   c.Query("action"),
	})
	return c.JSON(fiber.Map{"records": records, "count": len(records)})
}
