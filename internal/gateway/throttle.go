package gateway

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// Throttle bounds the client's outgoing request rate with a token bucket.
// Renewal and replay attempts draw from the same bucket as first attempts.
type Throttle struct {
	limiter *rate.Limiter
	issued  atomic.Int64
}

// NewThrottle creates a throttle allowing perSecond requests on average
// with bursts of up to burst. A burst below one is raised to one.
func NewThrottle(perSecond float64, burst int) *Throttle {
	if burst < 1 {
		burst = 1
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait blocks until a request may be sent, or the context is canceled.
func (t *Throttle) Wait(ctx context.Context) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("throttle wait: %w", err)
	}
	t.issued.Add(1)
	return nil
}

// Issued returns the number of requests let through so far.
func (t *Throttle) Issued() int64 {
	return t.issued.Load()
}
