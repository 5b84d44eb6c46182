package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/utils"
)

// limiterPool holds one token bucket per client IP. Entries that have been
// idle longer than the eviction window are swept periodically so the map does
// not grow without bound.
type limiterPool struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rate    rate.Limit
	burst   int
}

type clientLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

const limiterIdleEviction = 3 * time.Minute

func newLimiterPool(requestsPerSecond float64, burst int) *limiterPool {
	return &limiterPool{
		clients: make(map[string]*clientLimiter),
		rate:    rate.Limit(requestsPerSecond),
		burst:   burst,
	}
}

func (p *limiterPool) allow(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.clients[key]
	if !ok {
		c = &clientLimiter{lim: rate.NewLimiter(p.rate, p.burst)}
		p.clients[key] = c
	}
	c.lastSeen = time.Now()
	return c.lim.Allow()
}

func (p *limiterPool) sweep() {
	p.mu.Lock()
	defer p.mu.Unlock()

	cutoff := time.Now().Add(-limiterIdleEviction)
	for key, c := range p.clients {
		if c.lastSeen.Before(cutoff) {
			delete(p.clients, key)
		}
	}
}

// RateLimit returns a middleware that throttles requests per client IP.
// Clients behind the same IP share a bucket; the port is stripped so a
// reconnecting client does not get a fresh allowance.
func RateLimit(requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	pool := newLimiterPool(requestsPerSecond, burst)

	go func() {
		ticker := time.NewTicker(limiterIdleEviction)
		defer ticker.Stop()
		for range ticker.C {
			pool.sweep()
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !pool.allow(host) {
				utils.WriteError(w, errors.RateLimited("Too many requests. Please try again later."))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
