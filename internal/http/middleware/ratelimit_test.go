package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterExhaustsPerKey(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, time.Minute)

	assert.False(t, rl.Exhausted("a"))
	rl.Record("a")
	rl.Record("a")
	assert.True(t, rl.Exhausted("a"))
	assert.False(t, rl.Exhausted("b"))
}

func TestRateLimiterDropsIdleBuckets(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(0.001, 1, time.Minute)
	rl.now = func() time.Time { return now }

	rl.Record("a")
	assert.True(t, rl.Exhausted("a"))

	now = now.Add(2 * time.Minute)
	rl.limiter("b")
	_, kept := rl.buckets["a"]
	assert.False(t, kept)
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", ClientKey(r))

	r.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", ClientKey(r))
}
