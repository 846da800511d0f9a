package tenant

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/entitlement"
)

// Scope is the unit-of-work handle for one tenant. Each request gets
// its own value, so concurrent work for different tenants never shares
// a "current tenant". All checks fail closed when data is missing.
type Scope struct {
	tenant *Tenant
	engine *entitlement.Engine
}

// ScopeFor opens a scope for a registered tenant. Nil when unknown.
func (r *Registry) ScopeFor(tenantID string, engine *entitlement.Engine) *Scope {
	t := r.Get(tenantID)
	if t == nil {
		return nil
	}
	return &Scope{tenant: t, engine: engine}
}

// NewScope opens a scope for an already-resolved tenant.
func NewScope(t *Tenant, engine *entitlement.Engine) *Scope {
	return &Scope{tenant: t, engine: engine}
}

// Tenant returns the scope's tenant.
func (s *Scope) Tenant() *Tenant {
	return s.tenant
}

// TenantID returns the scope's tenant id.
func (s *Scope) TenantID() string {
	return s.tenant.ID
}

// Theme returns the tenant's branding for the presentation boundary.
func (s *Scope) Theme() (theme string, wl WhiteLabel) {
	return s.tenant.Settings.Theme, s.tenant.Settings.WhiteLabel
}

// HasFeature checks the tenant-settings flag only. See Authorized for
// the full feature gate.
func (s *Scope) HasFeature(flag string) bool {
	if s.tenant.Status != StatusActive {
		return false
	}
	return s.tenant.HasFeature(flag)
}

// CheckLimit reports whether current stays under the tenant-settings
// cap for resource. Unlimited (-1) always passes; an unconfigured
// resource never does.
func (s *Scope) CheckLimit(resource string, current int64) bool {
	limit := s.tenant.Limit(resource)
	if limit == Unlimited {
		return true
	}
	return current < limit
}

// UsagePercentage returns consumption against the tenant-settings cap
// for progress indicators. Unlimited resources report zero.
func (s *Scope) UsagePercentage(resource string, current int64) float64 {
	limit := s.tenant.Limit(resource)
	if limit == Unlimited {
		return 0
	}
	if limit <= 0 {
		return 100
	}
	pct := float64(current) / float64(limit) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// Authorized is the single feature gate: the tenant-settings flag AND
// the licensed feature must both be on. The stricter source always
// wins.
func (s *Scope) Authorized(feature string) bool {
	return s.HasFeature(feature) && s.engine.IsFeatureEnabled(s.tenant.ID, feature)
}

// RemainingDays proxies the license expiry for banner displays.
func (s *Scope) RemainingDays() (int, error) {
	return s.engine.RemainingDays(s.tenant.ID)
}

// ExpiringSoon reports whether the tenant's license is inside the
// warning window.
func (s *Scope) ExpiringSoon(thresholdDays int) bool {
	return s.engine.ExpiringSoon(s.tenant.ID, thresholdDays)
}

// PlanExpired reports whether the denormalized plan expiry has passed.
func (s *Scope) PlanExpired(now time.Time) bool {
	return !s.tenant.PlanExpiresAt.IsZero() && now.After(s.tenant.PlanExpiresAt)
}
