package audit

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is a single audit entry. Once appended it is never mutated or
// deleted by this package.
type Record struct {
	ID         uuid.UUID      `json:"id"`
	Seq        uint64         `json:"seq"`
	TenantID   string         `json:"tenant_id"`
	UserID     string         `json:"user_id"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	ResourceID string         `json:"resource_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	IPAddress  string         `json:"ip_address,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Sink receives appended records, typically for persistence. Sink
// failures never propagate to Append callers.
type Sink interface {
	Store(Record) error
}

// Filter selects records on Query. Empty fields match everything.
type Filter struct {
	TenantID string
	UserID   string
	Action   string
}

// Log is an append-only in-memory audit trail. Appends are serialized;
// the per-record sequence number breaks wall-clock ties so the order is
// total.
type Log struct {
	mu      sync.Mutex
	records []Record
	seq     uint64
	sink    Sink
}

func NewLog(sink Sink) *Log {
	return &Log{sink: sink}
}

// Append assigns an id, timestamp and sequence number, stores the
// record and forwards it to the sink fire-and-forget.
func (l *Log) Append(tenantID, userID, action, resource, resourceID string, details map[string]any, ip, userAgent string) Record {
	l.mu.Lock()
	l.seq++
	rec := Record{
		ID:         uuid.New(),
		Seq:        l.seq,
		TenantID:   tenantID,
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
		IPAddress:  ip,
		UserAgent:  userAgent,
		CreatedAt:  time.Now().UTC(),
	}
	l.records = append(l.records, rec)
	sink := l.sink
	l.mu.Unlock()

	if sink != nil {
		go func() {
			if err := sink.Store(rec); err != nil {
				slog.Error("audit sink store failed", "error", err, "action", rec.Action, "tenant_id", rec.TenantID)
			}
		}()
	}
	return rec
}

// Query returns records matching the filter in insertion order.
func (l *Log) Query(f Filter) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Record, 0)
	for _, rec := range l.records {
		if f.TenantID != "" && rec.TenantID != f.TenantID {
			continue
		}
		if f.UserID != "" && rec.UserID != f.UserID {
			continue
		}
		if f.Action != "" && rec.Action != f.Action {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Len reports the number of appended records.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
