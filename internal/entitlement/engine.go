package entitlement

import (
	"errors"
	"math"
	"sync"
	"time"
)

// ErrLicenseNotFound is returned when a tenant has no registered license.
var ErrLicenseNotFound = errors.New("license not found")

// Engine holds the active license per tenant. Every check takes an
// explicit tenant id so concurrent work for different tenants never
// shares ambient state. All checks fail closed: no license, inactive
// status or an expired license means "not entitled".
type Engine struct {
	mu       sync.RWMutex
	licenses map[string]*License
	now      func() time.Time
}

func NewEngine() *Engine {
	return &Engine{
		licenses: make(map[string]*License),
		now:      time.Now,
	}
}

// SetLicense registers or overwrites the license for its tenant.
func (e *Engine) SetLicense(lic *License) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.licenses[lic.TenantID] = lic
}

// License returns the registered license for a tenant, or nil.
func (e *Engine) License(tenantID string) *License {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.licenses[tenantID]
}

// Remove drops a tenant's license, used on tenant deletion.
func (e *Engine) Remove(tenantID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.licenses, tenantID)
}

// IsFeatureEnabled reports whether the tenant's license is valid and
// lists the feature.
func (e *Engine) IsFeatureEnabled(tenantID, feature string) bool {
	e.mu.RLock()
	lic := e.licenses[tenantID]
	e.mu.RUnlock()

	if lic == nil || !lic.Valid(e.now()) {
		return false
	}
	return lic.HasFeature(feature)
}

// CheckUsageLimit reports whether the tenant may consume one more unit
// of resource given its current usage. False without a valid license;
// always true for an unlimited (-1) cap.
func (e *Engine) CheckUsageLimit(tenantID, resource string, currentUsage int64) bool {
	e.mu.RLock()
	lic := e.licenses[tenantID]
	e.mu.RUnlock()

	if lic == nil || !lic.Valid(e.now()) {
		return false
	}
	limit := lic.Limit(resource)
	if limit == Unlimited {
		return true
	}
	return currentUsage < limit
}

// RemainingDays returns the ceiling of the time left on the tenant's
// license in days. Negative once the license has expired.
func (e *Engine) RemainingDays(tenantID string) (int, error) {
	e.mu.RLock()
	lic := e.licenses[tenantID]
	e.mu.RUnlock()

	if lic == nil {
		return 0, ErrLicenseNotFound
	}
	hours := lic.ExpiresAt.Sub(e.now()).Hours()
	return int(math.Ceil(hours / 24)), nil
}

// ExpiringSoon reports whether the license has thresholdDays or fewer
// remaining, including already-expired licenses.
func (e *Engine) ExpiringSoon(tenantID string, thresholdDays int) bool {
	days, err := e.RemainingDays(tenantID)
	if err != nil {
		return false
	}
	return days <= thresholdDays
}
