package services

import (
	"sync"
	"time"
)

// QuotaLimiter enforces a fixed-window request quota per key (user ID or
// client IP). The window resets on the first request after expiry. State is
// process-local: multiple server instances do not share counters, which
// under-enforces the quota in multi-instance deployments.
type QuotaLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]*quotaEntry
	now     func() time.Time
}

type quotaEntry struct {
	count       int
	windowStart time.Time
}

func NewQuotaLimiter(limit int, window time.Duration) *QuotaLimiter {
	return &QuotaLimiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*quotaEntry),
		now:     time.Now,
	}
}

// WithClock overrides the time source; used by tests.
func (q *QuotaLimiter) WithClock(now func() time.Time) *QuotaLimiter {
	q.now = now
	return q
}

// Allow records a request for key and reports whether it fits the quota.
func (q *QuotaLimiter) Allow(key string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	entry, ok := q.entries[key]
	if !ok || now.Sub(entry.windowStart) >= q.window {
		q.entries[key] = &quotaEntry{count: 1, windowStart: now}
		return true
	}

	if entry.count >= q.limit {
		return false
	}
	entry.count++
	return true
}

// Remaining reports how many requests the key has left in its current window.
func (q *QuotaLimiter) Remaining(key string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	entry, ok := q.entries[key]
	if !ok || q.now().Sub(entry.windowStart) >= q.window {
		return q.limit
	}
	if entry.count >= q.limit {
		return 0
	}
	return q.limit - entry.count
}
