package payments

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/entitlement"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotifierSendsTenantScopedReminder(t *testing.T) {
	var gotPath, gotTenant, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTenant = r.Header.Get("X-Tenant-ID")
		gotMethod = r.Method
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	registry := tenant.NewRegistry()
	registry.Register(&tenant.Tenant{ID: "acme", Status: tenant.StatusActive})
	notifier := NewWebhookNotifier(tenant.NewAPIClient(srv.URL), registry, entitlement.NewEngine())

	require.NoError(t, notifier.SendPaymentReminder("acme"))
	assert.Equal(t, "/notifications/payment-reminder", gotPath)
	assert.Equal(t, "acme", gotTenant)
	assert.Equal(t, http.MethodPost, gotMethod)

	assert.Error(t, notifier.SendPaymentReminder("ghost"), "unknown tenants are rejected")
}

func TestWebhookNotifierSurfacesRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	registry := tenant.NewRegistry()
	registry.Register(&tenant.Tenant{ID: "acme", Status: tenant.StatusActive})
	notifier := NewWebhookNotifier(tenant.NewAPIClient(srv.URL), registry, entitlement.NewEngine())

	assert.Error(t, notifier.SendPaymentReminder("acme"))
}
