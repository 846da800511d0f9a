package dto

type CreateSubscriptionRequest struct {
	PlanID        string `json:"plan_id"`
	PaymentMethod string `json:"payment_method"`
}

type UpdateSubscriptionRequest struct {
	PlanID string `json:"plan_id"`
}

type StartTrialRequest struct {
	PlanID       string `json:"plan_id"`
	DurationDays int    `json:"duration_days,omitempty"`
}

type ConvertTrialRequest struct {
	PlanID        string `json:"plan_id"`
	PaymentMethod string `json:"payment_method"`
}

// PaymentWebhook is the provider's out-of-band payment notification.
type PaymentWebhook struct {
	Event PaymentEvent `json:"event"`
}

type PaymentEvent struct {
	Type     string `json:"type"`
	TenantID string `json:"tenant_id"`
}
