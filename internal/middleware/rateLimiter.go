package middleware

import (
	"time"

	"golang.org/x/time/rate"
)

const (
	burstLimit = 5
	refillRate = 500 * time.Millisecond
)

// RateLimiter is a per-session token bucket: burst tokens, one refilled every
// interval.
type RateLimiter struct {
	limiter *rate.Limiter
}

func NewRatelimiter(burst int, interval time.Duration) *RateLimiter {
	if burst <= 0 {
		burst = burstLimit
	}
	if interval <= 0 {
		interval = refillRate
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Every(interval), burst),
	}
}

// Allow consumes one token if available.
func (l *RateLimiter) Allow() bool {
	return l.limiter.Allow()
}

func (l *RateLimiter) allowAt(t time.Time) bool {
	return l.limiter.AllowN(t, 1)
}
