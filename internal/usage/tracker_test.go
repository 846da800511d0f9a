package usage

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementAndGet(t *testing.T) {
	tr := NewTracker()

	assert.EqualValues(t, 0, tr.Get("acme", "orders"))

	require.NoError(t, tr.Increment("acme", "orders", 1))
	require.NoError(t, tr.Increment("acme", "orders", 4))
	assert.EqualValues(t, 5, tr.Get("acme", "orders"))

	// other tenants and resources are untouched
	assert.EqualValues(t, 0, tr.Get("acme", "tables"))
	assert.EqualValues(t, 0, tr.Get("bistro", "orders"))
}

func TestIncrementRejectsNonPositive(t *testing.T) {
	tr := NewTracker()
	assert.ErrorIs(t, tr.Increment("acme", "orders", 0), ErrInvalidAmount)
	assert.ErrorIs(t, tr.Increment("acme", "orders", -3), ErrInvalidAmount)
	assert.EqualValues(t, 0, tr.Get("acme", "orders"))
}

func TestAdjustFloorsAtZero(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Increment("acme", "orders", 2))

	tr.Adjust("acme", "orders", -1)
	assert.EqualValues(t, 1, tr.Get("acme", "orders"))

	tr.Adjust("acme", "orders", -10)
	assert.EqualValues(t, 0, tr.Get("acme", "orders"))
}

func TestReset(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Increment("acme", "orders", 3))
	require.NoError(t, tr.Increment("acme", "tables", 2))

	tr.Reset("acme", "orders")
	assert.EqualValues(t, 0, tr.Get("acme", "orders"))
	assert.EqualValues(t, 2, tr.Get("acme", "tables"))

	tr.Reset("acme")
	assert.EqualValues(t, 0, tr.Get("acme", "tables"))
}

func TestIncrementConcurrentExact(t *testing.T) {
	tr := NewTracker()
	const callers = 25
	const perCaller = 200

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perCaller; j++ {
				_ = tr.Increment("acme", "orders", 1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, callers*perCaller, tr.Get("acme", "orders"))
}
