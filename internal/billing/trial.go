package billing

import (
	"time"

	"github.com/google/uuid"
)

// Trial status values. A trial whose end date has passed keeps its
// stored "active" status until a sweep or conversion touches it; Active
// is the authoritative check.
const (
	TrialStatusActive    = "active"
	TrialStatusConverted = "converted"
	TrialStatusExpired   = "expired"
)

// DefaultTrialDays is the trial length used when none is configured.
const DefaultTrialDays = 14

type Trial struct {
	ID       uuid.UUID `json:"id"`
	TenantID string    `json:"tenant_id"`
	PlanID   string    `json:"plan_id"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Status   string    `json:"status"`
}

// Active derives whether the trial is usable right now. The stored
// status alone is not trusted because nothing flips it on a timer.
func (t *Trial) Active(now time.Time) bool {
	return t.Status == TrialStatusActive && now.Before(t.EndsAt)
}
