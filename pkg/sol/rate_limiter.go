package sol

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter spreads RPC calls so a shared endpoint's request budget is not
// exhausted by one burst of account fetches.
type RateLimiter struct {
	limiter *rate.Limiter
}

func NewRateLimiter(requestsPerSecond int) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// Wait blocks until a request slot is available or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}

// Allow reports whether a request may proceed right now.
func (rl *RateLimiter) Allow() bool {
	return rl.limiter.Allow()
}

// SetRate replaces the per-second budget.
func (rl *RateLimiter) SetRate(requestsPerSecond int) {
	rl.limiter.SetLimit(rate.Limit(requestsPerSecond))
	rl.limiter.SetBurst(requestsPerSecond)
}
