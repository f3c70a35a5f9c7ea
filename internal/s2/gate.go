package s2

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRequestInterval keeps unauthenticated use under the public quota
// of roughly 100 requests per 5 minutes.
const DefaultRequestInterval = time.Second

// Gate is a fixed-interval token gate. Successive Wait calls return at least
// one interval apart, whichever endpoint they are for. A zero or negative
// interval disables the gate.
type Gate struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// NewGate creates a gate that admits one request per interval.
func NewGate(interval time.Duration) *Gate {
	if interval <= 0 {
		return &Gate{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Gate{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

// Wait blocks until the next request may be sent or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

// Interval returns the minimum spacing between requests.
func (g *Gate) Interval() time.Duration {
	return g.interval
}
