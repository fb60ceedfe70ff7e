package http

import (
	"sync"

	"golang.org/x/time/rate"
)

// TenantLimiter enforces a per-tenant request rate. Each tenant gets
// its own token bucket, created on first use.
type TenantLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewTenantLimiter creates a limiter. A non-positive rps disables
// limiting entirely.
func NewTenantLimiter(rps float64, burst int) *TenantLimiter {
	if burst < 1 {
		burst = 1
	}
	return &TenantLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether the tenant may proceed with one request.
func (l *TenantLimiter) Allow(tenantID string) bool {
	if l == nil || l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	lim, ok := l.limiters[tenantID]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[tenantID] = lim
	}
	l.mu.Unlock()

	return lim.Allow()
}
