package audit

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSink struct {
	mu    sync.Mutex
	calls int
}

func (s *failingSink) Store(Record) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return errors.New("sink unavailable")
}

func TestAppendAssignsIdentityAndOrder(t *testing.T) {
	l := NewLog(nil)

	first := l.Append("acme", "u1", "license.updated", "license", "lic-1", map[string]any{"plan": "pro"}, "10.0.0.1", "console")
	second := l.Append("acme", "u1", "license.updated", "license", "lic-1", nil, "", "")

	assert.NotEqual(t, first.ID, second.ID)
	assert.EqualValues(t, 1, first.Seq)
	assert.EqualValues(t, 2, second.Seq)
	assert.False(t, first.CreatedAt.IsZero())
	assert.False(t, second.CreatedAt.Before(first.CreatedAt))
}

func TestQueryFilters(t *testing.T) {
	l := NewLog(nil)
	l.Append("acme", "u1", "auth.login", "user", "u1", nil, "", "")
	l.Append("acme", "u2", "auth.login", "user", "u2", nil, "", "")
	l.Append("bistro", "u3", "auth.login", "user", "u3", nil, "", "")
	l.Append("acme", "u1", "subscription.created", "subscription", "s1", nil, "", "")

	assert.Len(t, l.Query(Filter{}), 4)
	assert.Len(t, l.Query(Filter{TenantID: "acme"}), 3)
	assert.Len(t, l.Query(Filter{TenantID: "acme", UserID: "u1"}), 2)
	assert.Len(t, l.Query(Filter{Action: "auth.login"}), 3)
	assert.Empty(t, l.Query(Filter{TenantID: "ghost"}))

	// insertion order preserved
	records := l.Query(Filter{TenantID: "acme", UserID: "u1"})
	require.Len(t, records, 2)
	assert.Equal(t, "auth.login", records[0].Action)
	assert.Equal(t, "subscription.created", records[1].Action)
	assert.Less(t, records[0].Seq, records[1].Seq)
}

func TestSinkFailureNeverPropagates(t *testing.T) {
	sink := &failingSink{}
	l := NewLog(sink)

	rec := l.Append("acme", "u1", "auth.login", "user", "u1", nil, "", "")
	assert.NotEmpty(t, rec.ID)

	// forwarding is async; the record is queryable immediately
	assert.Len(t, l.Query(Filter{TenantID: "acme"}), 1)

	deadline := time.After(2 * time.Second)
	for {
		sink.mu.Lock()
		calls := sink.calls
		sink.mu.Unlock()
		if calls > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("sink was never invoked")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestAppendConcurrentTotalOrder(t *testing.T) {
	l := NewLog(nil)
	const writers = 10
	const perWriter = 50

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				l.Append("acme", "u", "usage.increment", "counter", "", nil, "", "")
			}
		}()
	}
	wg.Wait()

	records := l.Query(Filter{})
	require.Len(t, records, writers*perWriter)
	seen := make(map[uint64]bool, len(records))
	for i, rec := range records {
		assert.False(t, seen[rec.Seq], "duplicate seq %d", rec.Seq)
		seen[rec.Seq] = true
		if i > 0 {
			assert.Greater(t, rec.Seq, records[i-1].Seq, "insertion order must follow seq")
		}
	}
}
