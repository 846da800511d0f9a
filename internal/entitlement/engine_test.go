package entitlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(now time.Time) *Engine {
	e := NewEngine()
	e.now = func() time.Time { return now }
	return e
}

func activeLicense(tenantID string, expiresAt time.Time) *License {
	return &License{
		TenantID:  tenantID,
		Key:       "lic-" + tenantID,
		Status:    StatusActive,
		ExpiresAt: expiresAt,
		Features:  map[string]bool{"pos": true, "delivery": true},
		Limits:    map[string]int64{"orders": 100, "tables": Unlimited},
	}
}

func TestIsFeatureEnabled(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := testEngine(now)
	e.SetLicense(activeLicense("acme", now.Add(24*time.Hour)))

	assert.True(t, e.IsFeatureEnabled("acme", "pos"))
	assert.False(t, e.IsFeatureEnabled("acme", "marketing"), "unlisted feature")
	assert.False(t, e.IsFeatureEnabled("ghost", "pos"), "no license means deny")
}

func TestIsFeatureEnabledFailsClosed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		lic  *License
	}{
		{"expired", &License{TenantID: "acme", Status: StatusActive, ExpiresAt: now.Add(-time.Hour), Features: map[string]bool{"pos": true}}},
		{"suspended", &License{TenantID: "acme", Status: StatusSuspended, ExpiresAt: now.Add(time.Hour), Features: map[string]bool{"pos": true}}},
		{"cancelled", &License{TenantID: "acme", Status: StatusCancelled, ExpiresAt: now.Add(time.Hour), Features: map[string]bool{"pos": true}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := testEngine(now)
			e.SetLicense(tc.lic)
			assert.False(t, e.IsFeatureEnabled("acme", "pos"))
		})
	}
}

func TestCheckUsageLimit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := testEngine(now)
	e.SetLicense(activeLicense("acme", now.Add(24*time.Hour)))

	assert.True(t, e.CheckUsageLimit("acme", "orders", 99))
	assert.False(t, e.CheckUsageLimit("acme", "orders", 100))
	assert.False(t, e.CheckUsageLimit("acme", "orders", 500))
	assert.True(t, e.CheckUsageLimit("acme", "tables", 1_000_000), "unlimited resource")
	assert.False(t, e.CheckUsageLimit("acme", "couriers", 0), "unconfigured resource")
	assert.False(t, e.CheckUsageLimit("ghost", "orders", 0), "no license")
}

func TestRemainingDays(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := testEngine(now)

	_, err := e.RemainingDays("ghost")
	assert.ErrorIs(t, err, ErrLicenseNotFound)

	e.SetLicense(activeLicense("acme", now.Add(36*time.Hour)))
	days, err := e.RemainingDays("acme")
	require.NoError(t, err)
	assert.Equal(t, 2, days, "36h rounds up to 2 days")

	e.SetLicense(activeLicense("late", now.Add(-50*time.Hour)))
	days, err = e.RemainingDays("late")
	require.NoError(t, err)
	assert.Negative(t, days)
}

func TestExpiringSoon(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := testEngine(now)

	e.SetLicense(activeLicense("acme", now.Add(30*24*time.Hour)))
	assert.False(t, e.ExpiringSoon("acme", 7))

	e.SetLicense(activeLicense("soon", now.Add(3*24*time.Hour)))
	assert.True(t, e.ExpiringSoon("soon", 7))

	e.SetLicense(activeLicense("past", now.Add(-24*time.Hour)))
	assert.True(t, e.ExpiringSoon("past", 7), "already expired is still 'soon'")

	assert.False(t, e.ExpiringSoon("ghost", 7))
}

func TestSetLicenseOverwriteAndRemove(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := testEngine(now)

	e.SetLicense(activeLicense("acme", now.Add(time.Hour)))
	assert.True(t, e.IsFeatureEnabled("acme", "pos"))

	replacement := activeLicense("acme", now.Add(time.Hour))
	replacement.Features = map[string]bool{"marketing": true}
	e.SetLicense(replacement)
	assert.False(t, e.IsFeatureEnabled("acme", "pos"))
	assert.True(t, e.IsFeatureEnabled("acme", "marketing"))

	e.Remove("acme")
	assert.False(t, e.IsFeatureEnabled("acme", "marketing"))
	assert.Nil(t, e.License("acme"))
}
