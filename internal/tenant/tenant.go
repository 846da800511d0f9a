package tenant

import "time"

// Tenant status values.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusCancelled = "cancelled"
)

// Unlimited marks a tenant-settings limit with no cap.
const Unlimited int64 = -1

// WhiteLabel carries per-tenant branding for the presentation boundary.
type WhiteLabel struct {
	BrandName string `json:"brand_name"`
	LogoURL   string `json:"logo_url"`
	Hide      bool   `json:"hide_platform_branding"`
}

// Settings are the tenant-level overrides layered on top of the
// license: a feature here must ALSO be licensed before it is usable.
type Settings struct {
	Theme      string           `json:"theme"`
	WhiteLabel WhiteLabel       `json:"white_label"`
	Features   map[string]bool  `json:"features"`
	Limits     map[string]int64 `json:"limits"`
}

// Tenant is one customer organization. Plan, expiry and status are
// denormalized from billing for cheap display queries.
type Tenant struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Domains       []string  `json:"domains"`
	Settings      Settings  `json:"settings"`
	PlanID        string    `json:"plan_id"`
	PlanExpiresAt time.Time `json:"plan_expires_at"`
	Status        string    `json:"status"`
}

// HasFeature reports whether tenant settings enable the flag. Missing
// flags are disabled.
func (t *Tenant) HasFeature(flag string) bool {
	return t.Settings.Features[flag]
}

// Limit returns the tenant-settings cap for a resource, zero when the
// resource is not configured.
func (t *Tenant) Limit(resource string) int64 {
	limit, ok := t.Settings.Limits[resource]
	if !ok {
		return 0
	}
	return limit
}
