package usage

import (
	"errors"
	"sync"
)

// ErrInvalidAmount rejects non-positive increments. Corrections go
// through Adjust instead.
var ErrInvalidAmount = errors.New("increment amount must be positive")

// Tracker holds per-tenant per-resource consumption counters. Counters
// only grow through Increment and are exact under concurrent callers.
type Tracker struct {
	mu       sync.Mutex
	counters map[string]map[string]int64
}

func NewTracker() *Tracker {
	return &Tracker{counters: make(map[string]map[string]int64)}
}

// Increment adds amount to a tenant's resource counter, lazily creating
// it. Amounts below 1 are rejected.
func (t *Tracker) Increment(tenantID, resource string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	byResource, ok := t.counters[tenantID]
	if !ok {
		byResource = make(map[string]int64)
		t.counters[tenantID] = byResource
	}
	byResource[resource] += amount
	return nil
}

// Adjust applies a signed correction to a counter, flooring at zero.
func (t *Tracker) Adjust(tenantID, resource string, delta int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	byResource, ok := t.counters[tenantID]
	if !ok {
		byResource = make(map[string]int64)
		t.counters[tenantID] = byResource
	}
	next := byResource[resource] + delta
	if next < 0 {
		next = 0
	}
	byResource[resource] = next
}

// Get returns the current count, zero when the counter does not exist.
func (t *Tracker) Get(tenantID, resource string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counters[tenantID][resource]
}

// Reset clears the named resources for a tenant, or every resource when
// none are named. Used at billing-cycle rollover.
func (t *Tracker) Reset(tenantID string, resources ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(resources) == 0 {
		delete(t.counters, tenantID)
		return
	}
	byResource, ok := t.counters[tenantID]
	if !ok {
		return
	}
	for _, r := range resources {
		delete(byResource, r)
	}
}
