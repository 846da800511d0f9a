package entitlement

import "time"

// License status values.
const (
	StatusActive    = "active"
	StatusExpired   = "expired"
	StatusSuspended = "suspended"
	StatusCancelled = "cancelled"
)

// Unlimited marks a resource with no cap.
const Unlimited int64 = -1

// License is the entitlement grant for one tenant: which features it
// may use and how much of each resource it may consume.
type License struct {
	TenantID  string           `json:"tenant_id"`
	Key       string           `json:"key"`
	Status    string           `json:"status"`
	ExpiresAt time.Time        `json:"expires_at"`
	Features  map[string]bool  `json:"features"`
	Limits    map[string]int64 `json:"limits"`
}

// Valid reports whether the license authorizes anything at all at the
// given instant: it must be active and unexpired.
func (l *License) Valid(now time.Time) bool {
	return l.Status == StatusActive && !now.After(l.ExpiresAt)
}

// HasFeature reports whether the license lists the feature.
func (l *License) HasFeature(feature string) bool {
	return l.Features[feature]
}

// Limit returns the cap for a resource. A resource the license does not
// mention has a cap of zero, not unlimited.
func (l *License) Limit(resource string) int64 {
	limit, ok := l.Limits[resource]
	if !ok {
		return 0
	}
	return limit
}
