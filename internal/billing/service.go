package billing

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/audit"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/entitlement"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/usage"
	"github.com/google/uuid"
)

var (
	ErrPlanNotFound         = errors.New("plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrTrialNotFound        = errors.New("trial not found")
	ErrInvoiceNotFound      = errors.New("invoice not found")
)

// PaymentProvider is the external payment gateway, invoked through this
// narrow interface. Charges are asynchronous: a charge failure surfaces
// later through HandlePaymentEvent, never through CreateSubscription.
type PaymentProvider interface {
	Charge(invoice Invoice, paymentMethod string) error
	Cancel(subscriptionID uuid.UUID) error
	Adjust(subscriptionID uuid.UUID, amountDelta int64) error
}

// Notifier delivers billing notifications. Side effect only.
type Notifier interface {
	SendPaymentReminder(tenantID string) error
}

// Payment event types delivered by the provider webhook.
const (
	EventPaymentFailed    = "payment_failed"
	EventPaymentRecovered = "payment_recovered"
	EventPaymentDefaulted = "payment_defaulted"
	EventRenewal          = "renewal"
)

// Service owns the subscription and trial state machines. One active
// subscription and at most one trial per tenant.
type Service struct {
	catalog  *Catalog
	provider PaymentProvider
	notifier Notifier
	auditLog *audit.Log
	engine   *entitlement.Engine
	tracker  *usage.Tracker

	mu       sync.Mutex
	subs     map[string]*Subscription
	trials   map[string]*Trial
	invoices map[uuid.UUID]*Invoice

	now func() time.Time
}

func NewService(catalog *Catalog, provider PaymentProvider, notifier Notifier, auditLog *audit.Log, engine *entitlement.Engine, tracker *usage.Tracker) *Service {
	return &Service{
		catalog:  catalog,
		provider: provider,
		notifier: notifier,
		auditLog: auditLog,
		engine:   engine,
		tracker:  tracker,
		subs:     make(map[string]*Subscription),
		trials:   make(map[string]*Trial),
		invoices: make(map[uuid.UUID]*Invoice),
		now:      time.Now,
	}
}

// CreateSubscription builds an active subscription for the tenant on
// the given plan and hands the first invoice to the payment provider.
// The call returns optimistically; a failed charge is reconciled later
// through the provider's webhook.
func (s *Service) CreateSubscription(tenantID, userID, planID, paymentMethod string) (*Subscription, error) {
	plan := s.catalog.Get(planID)
	if plan == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}

	now := s.now()
	sub := &Subscription{
		ID:                 uuid.New(),
		TenantID:           tenantID,
		PlanID:             plan.ID,
		Status:             SubStatusActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.Add(periodLength(plan.Interval)),
		PaymentMethod:      paymentMethod,
		Amount:             plan.Price,
		Currency:           plan.Currency,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	s.mu.Lock()
	s.subs[tenantID] = sub
	s.mu.Unlock()

	s.grantLicense(tenantID, plan, sub.CurrentPeriodEnd)
	inv := s.GenerateInvoice(sub)

	go func() {
		if err := s.provider.Charge(inv, paymentMethod); err != nil {
			slog.Error("subscription charge failed", "error", err, "tenant_id", tenantID, "invoice_id", inv.ID)
		}
	}()

	s.auditLog.Append(tenantID, userID, "subscription.created", "subscription", sub.ID.String(),
		map[string]any{"plan_id": plan.ID, "amount": plan.Price}, "", "")
	return sub, nil
}

// CancelSubscription marks the tenant's subscription for cancellation
// at the end of the current period. Provider-side cancellation errors
// are logged, never returned.
func (s *Service) CancelSubscription(tenantID, userID string) error {
	s.mu.Lock()
	sub, ok := s.subs[tenantID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: tenant %s", ErrSubscriptionNotFound, tenantID)
	}
	sub.CancelAtPeriodEnd = true
	sub.Status = SubStatusCancelled
	sub.UpdatedAt = s.now()
	subID := sub.ID
	s.mu.Unlock()

	if err := s.provider.Cancel(subID); err != nil {
		slog.Error("provider cancellation failed", "error", err, "tenant_id", tenantID, "subscription_id", subID)
	}

	s.auditLog.Append(tenantID, userID, "subscription.cancelled", "subscription", subID.String(),
		map[string]any{"cancel_at_period_end": true}, "", "")
	return nil
}

// UpdateSubscription swaps the tenant's subscription onto a new plan
// and triggers a proration adjustment with the provider.
func (s *Service) UpdateSubscription(tenantID, userID, newPlanID string) (*Subscription, error) {
	plan := s.catalog.Get(newPlanID)
	if plan == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, newPlanID)
	}

	s.mu.Lock()
	sub, ok := s.subs[tenantID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: tenant %s", ErrSubscriptionNotFound, tenantID)
	}
	delta := plan.Price - sub.Amount
	sub.PlanID = plan.ID
	sub.Amount = plan.Price
	sub.Currency = plan.Currency
	sub.UpdatedAt = s.now()
	subID := sub.ID
	periodEnd := sub.CurrentPeriodEnd
	s.mu.Unlock()

	s.grantLicense(tenantID, plan, periodEnd)

	go func() {
		if err := s.provider.Adjust(subID, delta); err != nil {
			slog.Error("proration adjustment failed", "error", err, "tenant_id", tenantID, "subscription_id", subID)
		}
	}()

	s.auditLog.Append(tenantID, userID, "subscription.updated", "subscription", subID.String(),
		map[string]any{"plan_id": plan.ID, "proration": delta}, "", "")
	return sub, nil
}

// StartTrial opens a trial on the given plan. Trials always start
// active.
func (s *Service) StartTrial(tenantID, userID, planID string, durationDays int) (*Trial, error) {
	plan := s.catalog.Get(planID)
	if plan == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}
	if durationDays <= 0 {
		durationDays = DefaultTrialDays
	}

	now := s.now()
	trial := &Trial{
		ID:       uuid.New(),
		TenantID: tenantID,
		PlanID:   plan.ID,
		StartsAt: now,
		EndsAt:   now.AddDate(0, 0, durationDays),
		Status:   TrialStatusActive,
	}

	s.mu.Lock()
	s.trials[tenantID] = trial
	s.mu.Unlock()

	s.grantLicense(tenantID, plan, trial.EndsAt)

	s.auditLog.Append(tenantID, userID, "trial.started", "trial", trial.ID.String(),
		map[string]any{"plan_id": plan.ID, "days": durationDays}, "", "")
	return trial, nil
}

// ConvertTrialToPaid marks the tenant's trial converted and opens a
// paid subscription on the given plan. Preconditions are checked before
// any mutation: an unknown plan must leave the trial untouched.
func (s *Service) ConvertTrialToPaid(tenantID, userID, planID, paymentMethod string) (*Subscription, error) {
	if s.catalog.Get(planID) == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}

	s.mu.Lock()
	trial, ok := s.trials[tenantID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: tenant %s", ErrTrialNotFound, tenantID)
	}
	trial.Status = TrialStatusConverted
	trialID := trial.ID
	s.mu.Unlock()

	s.auditLog.Append(tenantID, userID, "trial.converted", "trial", trialID.String(),
		map[string]any{"plan_id": planID}, "", "")
	return s.CreateSubscription(tenantID, userID, planID, paymentMethod)
}

// ExpireTrials sweeps stored trial statuses into line with the derived
// state. Active() stays authoritative; this only keeps reports tidy.
func (s *Service) ExpireTrials() int {
	now := s.now()
	expired := 0

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, trial := range s.trials {
		if trial.Status == TrialStatusActive && !now.Before(trial.EndsAt) {
			trial.Status = TrialStatusExpired
			expired++
		}
	}
	return expired
}

// GenerateInvoice opens an invoice for the subscription's current
// period.
func (s *Service) GenerateInvoice(sub *Subscription) Invoice {
	inv := Invoice{
		ID:             uuid.New(),
		SubscriptionID: sub.ID,
		TenantID:       sub.TenantID,
		Amount:         sub.Amount,
		Currency:       sub.Currency,
		Status:         "open",
		IssuedAt:       s.now(),
	}

	s.mu.Lock()
	s.invoices[inv.ID] = &inv
	s.mu.Unlock()
	return inv
}

// ProcessPayment charges an open invoice synchronously and records the
// outcome on the invoice.
func (s *Service) ProcessPayment(invoiceID uuid.UUID, paymentMethod string) (bool, error) {
	s.mu.Lock()
	inv, ok := s.invoices[invoiceID]
	if !ok {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: %s", ErrInvoiceNotFound, invoiceID)
	}
	copyInv := *inv
	s.mu.Unlock()

	if err := s.provider.Charge(copyInv, paymentMethod); err != nil {
		s.mu.Lock()
		inv.Status = "failed"
		s.mu.Unlock()
		slog.Warn("invoice payment failed", "error", err, "invoice_id", invoiceID, "tenant_id", inv.TenantID)
		return false, nil
	}

	s.mu.Lock()
	inv.Status = "paid"
	s.mu.Unlock()
	return true, nil
}

// SendPaymentReminder notifies the tenant about an outstanding payment.
// No state changes; delivery failures are logged.
func (s *Service) SendPaymentReminder(tenantID string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendPaymentReminder(tenantID); err != nil {
		slog.Error("payment reminder delivery failed", "error", err, "tenant_id", tenantID)
	}
}

// HandlePaymentEvent reconciles provider webhook events with the
// subscription state machine: failed payments move the subscription to
// past_due and send the tenant a payment reminder, recovery moves it
// back to active, a final default to unpaid with an
// immediate cancellation, and a renewal rolls the billing period and
// resets usage counters.
func (s *Service) HandlePaymentEvent(tenantID, eventType string) error {
	s.mu.Lock()
	sub, ok := s.subs[tenantID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: tenant %s", ErrSubscriptionNotFound, tenantID)
	}

	now := s.now()
	switch eventType {
	case EventPaymentFailed:
		sub.Status = SubStatusPastDue
	case EventPaymentRecovered:
		sub.Status = SubStatusActive
	case EventPaymentDefaulted:
		sub.Status = SubStatusUnpaid
		sub.CancelAtPeriodEnd = false
	case EventRenewal:
		sub.Status = SubStatusActive
		sub.CurrentPeriodStart = now
		plan := s.catalog.Get(sub.PlanID)
		interval := "month"
		if plan != nil {
			interval = plan.Interval
		}
		sub.CurrentPeriodEnd = now.Add(periodLength(interval))
	default:
		s.mu.Unlock()
		return nil
	}
	sub.UpdatedAt = now
	status := sub.Status
	subID := sub.ID
	planID := sub.PlanID
	periodEnd := sub.CurrentPeriodEnd
	s.mu.Unlock()

	switch eventType {
	case EventPaymentFailed:
		s.SendPaymentReminder(tenantID)
	case EventPaymentDefaulted:
		// Non-payment ends service immediately.
		if err := s.provider.Cancel(subID); err != nil {
			slog.Error("provider cancellation failed", "error", err, "tenant_id", tenantID, "subscription_id", subID)
		}
		s.suspendLicense(tenantID)
	case EventRenewal:
		if plan := s.catalog.Get(planID); plan != nil {
			s.grantLicense(tenantID, plan, periodEnd)
		}
		s.tracker.Reset(tenantID)
	}

	s.auditLog.Append(tenantID, "", "subscription."+eventType, "subscription", subID.String(),
		map[string]any{"status": status}, "", "")
	return nil
}

// Subscription returns the tenant's subscription, or nil.
func (s *Service) Subscription(tenantID string) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.subs[tenantID]; ok {
		copySub := *sub
		return &copySub
	}
	return nil
}

// Trial returns the tenant's trial, or nil.
func (s *Service) Trial(tenantID string) *Trial {
	s.mu.Lock()
	defer s.mu.Unlock()
	if trial, ok := s.trials[tenantID]; ok {
		copyTrial := *trial
		return &copyTrial
	}
	return nil
}

// RemoveTenant drops all billing state for a deleted tenant and revokes
// its license.
func (s *Service) RemoveTenant(tenantID string) {
	s.mu.Lock()
	delete(s.subs, tenantID)
	delete(s.trials, tenantID)
	s.mu.Unlock()

	s.engine.Remove(tenantID)
	s.tracker.Reset(tenantID)
	s.auditLog.Append(tenantID, "", "tenant.removed", "tenant", tenantID, nil, "", "")
}

// grantLicense mirrors a plan onto the tenant's active license.
func (s *Service) grantLicense(tenantID string, plan *Plan, expiresAt time.Time) {
	features := make(map[string]bool, len(plan.Features))
	for _, f := range plan.Features {
		features[f] = true
	}
	limits := make(map[string]int64, len(plan.Limits))
	for k, v := range plan.Limits {
		limits[k] = v
	}

	s.engine.SetLicense(&entitlement.License{
		TenantID:  tenantID,
		Key:       uuid.NewString(),
		Status:    entitlement.StatusActive,
		ExpiresAt: expiresAt,
		Features:  features,
		Limits:    limits,
	})
}

func (s *Service) suspendLicense(tenantID string) {
	lic := s.engine.License(tenantID)
	if lic == nil {
		return
	}
	updated := *lic
	updated.Status = entitlement.StatusSuspended
	s.engine.SetLicense(&updated)
}
