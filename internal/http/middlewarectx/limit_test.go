package middlewarectx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_SweepsIdleVisitorsPeriodically(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := start
	limiter := NewRateLimiter(1000, 10)
	limiter.now = func() time.Time { return clock }

	require.True(t, limiter.Allow("a"))
	require.True(t, limiter.Allow("b"))

	clock = start.Add(5 * time.Minute)
	require.True(t, limiter.Allow("b"))
	assert.Len(t, limiter.visitors, 2)

	// первая чистка: a простаивает дольше visitorTTL
	clock = start.Add(visitorTTL + time.Second)
	require.True(t, limiter.Allow("c"))
	assert.NotContains(t, limiter.visitors, "a")
	assert.Contains(t, limiter.visitors, "b")
	assert.Equal(t, clock, limiter.lastSweep)

	// b уже просрочен, но до следующей чистки остаётся в карте
	clock = start.Add(16 * time.Minute)
	require.True(t, limiter.Allow("c"))
	assert.Contains(t, limiter.visitors, "b")

	clock = start.Add(2*visitorTTL + 2*time.Second)
	require.True(t, limiter.Allow("c"))
	assert.NotContains(t, limiter.visitors, "b")
	assert.Len(t, limiter.visitors, 1)
}
