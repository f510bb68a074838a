package scrape

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/camspec"
	"golang.org/x/time/rate"
)

var _ camspec.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out requests to each manufacturer site. Every host
// gets its own token bucket, created on first use; host names are compared
// case-insensitively.
type DomainLimiter struct {
	mu    sync.Mutex
	sites map[string]*rate.Limiter
	limit rate.Limit
	burst int
}

// LimiterOption configures a DomainLimiter.
type LimiterOption func(*DomainLimiter)

// WithBurst lets up to n requests to one site go out back to back before
// spacing applies. Defaults to 1.
func WithBurst(n int) LimiterOption {
	return func(d *DomainLimiter) {
		if n > 0 {
			d.burst = n
		}
	}
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// to each site. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64, opts ...LimiterOption) *DomainLimiter {
	d := &DomainLimiter{
		sites: make(map[string]*rate.Limiter),
		limit: rate.Limit(rps),
		burst: 1,
	}
	if rps <= 0 {
		d.limit = rate.Inf
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Wait blocks until a request to domain is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.site(strings.ToLower(domain)).Wait(ctx)
}

func (d *DomainLimiter) site(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.sites[host]
	if !ok {
		l = rate.NewLimiter(d.limit, d.burst)
		d.sites[host] = l
	}
	return l
}
