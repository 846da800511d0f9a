package payments

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/billing"
	"github.com/google/uuid"
)

// Gateway is the default payment provider binding. The real gateway is
// an external service; this binding records the intent and relies on
// the provider's webhook for the actual payment outcome.
type Gateway struct{}

func NewGateway() *Gateway {
	return &Gateway{}
}

func (g *Gateway) Charge(invoice billing.Invoice, paymentMethod string) error {
	slog.Info("charge submitted", "invoice_id", invoice.ID, "tenant_id", invoice.TenantID, "amount", invoice.Amount, "method", paymentMethod)
	return nil
}

func (g *Gateway) Cancel(subscriptionID uuid.UUID) error {
	slog.Info("provider cancellation submitted", "subscription_id", subscriptionID)
	return nil
}

func (g *Gateway) Adjust(subscriptionID uuid.UUID, amountDelta int64) error {
	slog.Info("proration adjustment submitted", "subscription_id", subscriptionID, "delta", amountDelta)
	return nil
}

// LogNotifier delivers billing notifications to the log. Swapped for a
// real channel at the presentation boundary.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) SendPaymentReminder(tenantID string) error {
	slog.Info("payment reminder sent", "tenant_id", tenantID)
	return nil
}
