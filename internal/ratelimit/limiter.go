package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	count     int
	windowEnd time.Time
}

// Limiter is a fixed-window admission controller keyed by caller-chosen
// strings (IP, tenant id, email). Buckets are transient and reset once
// their window elapses.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func New() *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow consumes one slot for key. It returns false when the key has
// already used limit slots inside the current window. Updates are
// serialized, so the in-window count never exceeds limit.
func (l *Limiter) Allow(key string, limit int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok || now.After(b.windowEnd) {
		l.buckets[key] = &bucket{count: 1, windowEnd: now.Add(window)}
		return true
	}

	if b.count < limit {
		b.count++
		return true
	}
	return false
}

// Reset discards the bucket for key, if any.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}
