package billing

import (
	"time"

	"github.com/google/uuid"
)

// Subscription status values.
const (
	SubStatusActive    = "active"
	SubStatusCancelled = "cancelled"
	SubStatusPastDue   = "past_due"
	SubStatusUnpaid    = "unpaid"
)

type Subscription struct {
	ID                 uuid.UUID `json:"id"`
	TenantID           string    `json:"tenant_id"`
	PlanID             string    `json:"plan_id"`
	Status             string    `json:"status"`
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	CancelAtPeriodEnd  bool      `json:"cancel_at_period_end"`
	PaymentMethod      string    `json:"payment_method"`
	Amount             int64     `json:"amount"`
	Currency           string    `json:"currency"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Invoice references one billing period charge for a subscription.
type Invoice struct {
	ID             uuid.UUID `json:"id"`
	SubscriptionID uuid.UUID `json:"subscription_id"`
	TenantID       string    `json:"tenant_id"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"` // "open", "paid", "failed"
	IssuedAt       time.Time `json:"issued_at"`
}

// periodLength returns the fixed subscription period for a plan interval.
func periodLength(interval string) time.Duration {
	if interval == "year" {
		return 365 * 24 * time.Hour
	}
	return 30 * 24 * time.Hour
}
