package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/campusqa"
	"golang.org/x/time/rate"
)

var _ campusqa.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces successive requests to the same domain by a fixed
// interval using token buckets. Each domain gets its own limiter, so requests
// to different domains do not wait on each other.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a DomainLimiter allowing one request per interval
// per domain, with no bursting. A zero interval disables limiting.
func NewDomainLimiter(interval time.Duration) *DomainLimiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
