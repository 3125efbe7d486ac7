package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterBurstThenRefill(t *testing.T) {
	l := NewRatelimiter(3, time.Second)
	start := time.Now()

	for i := 0; i < 3; i++ {
		assert.True(t, l.allowAt(start), "token %d", i)
	}
	assert.False(t, l.allowAt(start))

	assert.True(t, l.allowAt(start.Add(time.Second)))
	assert.False(t, l.allowAt(start.Add(time.Second)))
}

func TestRateLimiterDefaults(t *testing.T) {
	l := NewRatelimiter(0, 0)
	now := time.Now()

	allowed := 0
	for i := 0; i < 10; i++ {
		if l.allowAt(now) {
			allowed++
		}
	}
	assert.Equal(t, burstLimit, allowed)
	assert.True(t, l.allowAt(now.Add(refillRate)))
}
