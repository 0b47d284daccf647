package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuotaLimiterAllowsUpToLimit(t *testing.T) {
	q := NewQuotaLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		assert.True(t, q.Allow("user:1"), "request %d should be admitted", i+1)
	}
	assert.False(t, q.Allow("user:1"))
	assert.Equal(t, 0, q.Remaining("user:1"))

	// Other keys have independent counters.
	assert.True(t, q.Allow("user:2"))
	assert.Equal(t, 3, q.Remaining("user:3"))
}

func TestQuotaLimiterWindowReset(t *testing.T) {
	current := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	q := NewQuotaLimiter(2, time.Hour).WithClock(func() time.Time { return current })

	assert.True(t, q.Allow("ip:1.2.3.4"))
	assert.True(t, q.Allow("ip:1.2.3.4"))
	assert.False(t, q.Allow("ip:1.2.3.4"))

	current = current.Add(59 * time.Minute)
	assert.False(t, q.Allow("ip:1.2.3.4"))

	current = current.Add(time.Minute)
	assert.True(t, q.Allow("ip:1.2.3.4"))
	assert.Equal(t, 1, q.Remaining("ip:1.2.3.4"))
}
