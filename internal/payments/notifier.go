package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/entitlement"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/tenant"
)

// WebhookNotifier delivers payment reminders to the tenant's own API
// surface through the tenant-scoped client, so every delivery carries
// the X-Tenant-ID header and stays inside the tenant's scope.
type WebhookNotifier struct {
	client   *tenant.APIClient
	registry *tenant.Registry
	engine   *entitlement.Engine
}

func NewWebhookNotifier(client *tenant.APIClient, registry *tenant.Registry, engine *entitlement.Engine) *WebhookNotifier {
	return &WebhookNotifier{client: client, registry: registry, engine: engine}
}

func (n *WebhookNotifier) SendPaymentReminder(tenantID string) error {
	scope := n.registry.ScopeFor(tenantID, n.engine)
	if scope == nil {
		return fmt.Errorf("unknown tenant: %s", tenantID)
	}

	body, err := json.Marshal(map[string]string{"type": "payment_reminder"})
	if err != nil {
		return err
	}

	resp, err := n.client.Call(scope, tenantID, "/notifications/payment-reminder", tenant.CallOptions{
		Method:  http.MethodPost,
		Body:    bytes.NewReader(body),
		Headers: map[string]string{"Content-Type": "application/json"},
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("reminder delivery rejected: %s", resp.Status)
	}
	return nil
}
