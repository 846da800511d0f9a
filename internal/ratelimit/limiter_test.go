package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowFixedWindow(t *testing.T) {
	l := New()
	current := time.Now()
	l.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("login:a", 3, time.Second), "call %d", i+1)
	}
	assert.False(t, l.Allow("login:a", 3, time.Second), "fourth call in window")

	// window elapses, bucket resets
	current = current.Add(1001 * time.Millisecond)
	assert.True(t, l.Allow("login:a", 3, time.Second))
}

func TestAllowIndependentKeys(t *testing.T) {
	l := New()
	assert.True(t, l.Allow("a", 1, time.Minute))
	assert.False(t, l.Allow("a", 1, time.Minute))
	assert.True(t, l.Allow("b", 1, time.Minute))
}

func TestReset(t *testing.T) {
	l := New()
	assert.True(t, l.Allow("a", 1, time.Minute))
	assert.False(t, l.Allow("a", 1, time.Minute))
	l.Reset("a")
	assert.True(t, l.Allow("a", 1, time.Minute))
}

func TestAllowConcurrentNeverExceedsLimit(t *testing.T) {
	l := New()
	const limit = 50
	const callers = 20
	const perCaller = 10

	var allowed int64
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perCaller; j++ {
				if l.Allow("shared", limit, time.Minute) {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, limit, allowed)
}
