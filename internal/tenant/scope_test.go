package tenant

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/entitlement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTenant(id string, domains ...string) *Tenant {
	return &Tenant{
		ID:      id,
		Name:    id + " restaurant",
		Domains: domains,
		Status:  StatusActive,
		Settings: Settings{
			Theme: "dark",
			WhiteLabel: WhiteLabel{
				BrandName: id,
			},
			Features: map[string]bool{"pos": true, "delivery": true},
			Limits:   map[string]int64{"orders": 100, "tables": Unlimited},
		},
	}
}

func grantedEngine(tenantID string, features ...string) *entitlement.Engine {
	e := entitlement.NewEngine()
	fm := make(map[string]bool, len(features))
	for _, f := range features {
		fm[f] = true
	}
	e.SetLicense(&entitlement.License{
		TenantID:  tenantID,
		Status:    entitlement.StatusActive,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		Features:  fm,
		Limits:    map[string]int64{"orders": 100},
	})
	return e
}

func TestRegistryResolveByDomain(t *testing.T) {
	r := NewRegistry()
	r.Register(testTenant("acme", "acme.example.com", "orders.acme.com"))
	r.Register(testTenant("bistro", "bistro.example.com"))

	assert.Equal(t, "acme", r.ResolveByDomain("acme.example.com").ID)
	assert.Equal(t, "acme", r.ResolveByDomain("ORDERS.ACME.COM").ID)
	assert.Equal(t, "bistro", r.ResolveByDomain("bistro.example.com").ID)
	assert.Nil(t, r.ResolveByDomain("unknown.example.com"))
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	r.Register(testTenant("acme", "acme.example.com"))

	r.Remove("acme")
	assert.Nil(t, r.Get("acme"))
	assert.Nil(t, r.ResolveByDomain("acme.example.com"))
	assert.False(t, r.Exists("acme"))
}

func TestScopeHasFeature(t *testing.T) {
	engine := grantedEngine("acme", "pos")
	scope := NewScope(testTenant("acme"), engine)

	assert.True(t, scope.HasFeature("pos"))
	assert.False(t, scope.HasFeature("marketing"), "missing flag is disabled")

	suspended := testTenant("acme")
	suspended.Status = StatusSuspended
	assert.False(t, NewScope(suspended, engine).HasFeature("pos"), "suspended tenant has no features")
}

func TestScopeAuthorizedComposesBothSources(t *testing.T) {
	// settings enable pos+delivery; license only grants pos
	engine := grantedEngine("acme", "pos")
	scope := NewScope(testTenant("acme"), engine)

	assert.True(t, scope.Authorized("pos"), "both sources agree")
	assert.False(t, scope.Authorized("delivery"), "settings on, license off")
	assert.False(t, scope.Authorized("marketing"), "neither source")

	// license grants marketing but the tenant flag is off
	engine2 := grantedEngine("acme", "marketing")
	assert.False(t, NewScope(testTenant("acme"), engine2).Authorized("marketing"))
}

func TestScopeCheckLimit(t *testing.T) {
	scope := NewScope(testTenant("acme"), grantedEngine("acme"))

	assert.True(t, scope.CheckLimit("orders", 99))
	assert.False(t, scope.CheckLimit("orders", 100))
	assert.True(t, scope.CheckLimit("tables", 1_000_000), "unlimited")
	assert.False(t, scope.CheckLimit("couriers", 0), "unconfigured resource fails closed")
}

func TestScopeUsagePercentage(t *testing.T) {
	scope := NewScope(testTenant("acme"), grantedEngine("acme"))

	assert.InDelta(t, 45.0, scope.UsagePercentage("orders", 45), 0.001)
	assert.InDelta(t, 100.0, scope.UsagePercentage("orders", 250), 0.001, "clamped")
	assert.Zero(t, scope.UsagePercentage("tables", 123), "unlimited reports zero")
	assert.InDelta(t, 100.0, scope.UsagePercentage("couriers", 1), 0.001, "unconfigured is full")
}

func TestScopeTheme(t *testing.T) {
	scope := NewScope(testTenant("acme"), grantedEngine("acme"))
	theme, wl := scope.Theme()
	assert.Equal(t, "dark", theme)
	assert.Equal(t, "acme", wl.BrandName)
}

func TestScopeForUnknownTenant(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.ScopeFor("ghost", entitlement.NewEngine()))
}

func TestDataManagerIsolation(t *testing.T) {
	m := NewDataManager()

	m.SetData("acme", "draft-menu", "tacos")
	m.SetData("bistro", "draft-menu", "crepes")

	v, ok := m.GetData("acme", "draft-menu")
	require.True(t, ok)
	assert.Equal(t, "tacos", v)

	v, ok = m.GetData("bistro", "draft-menu")
	require.True(t, ok)
	assert.Equal(t, "crepes", v)

	_, ok = m.GetData("other", "draft-menu")
	assert.False(t, ok, "keys never leak across tenants")

	m.DeleteData("acme", "draft-menu")
	_, ok = m.GetData("acme", "draft-menu")
	assert.False(t, ok)
	_, ok = m.GetData("bistro", "draft-menu")
	assert.True(t, ok, "delete is tenant-scoped too")

	m.SetData("acme", "a", 1)
	m.SetData("acme", "b", 2)
	m.Purge("acme")
	_, ok = m.GetData("acme", "a")
	assert.False(t, ok)
}
