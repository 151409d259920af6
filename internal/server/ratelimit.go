package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Clients unseen for clientIdle lose their bucket on the next sweep.
const (
	clientIdle    = 10 * time.Minute
	sweepInterval = time.Minute
)

// IPRateLimiter keeps one token bucket per client address.
type IPRateLimiter struct {
	ips map[string]*client
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter allows r requests per second per client with bursts of b.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*client),
		r:   r,
		b:   b,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	c, exists := i.ips[ip]
	if !exists {
		c = &client{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = c
	}
	c.lastSeen = time.Now()
	return c.limiter
}

// Sweep drops clients last seen before cutoff and returns how many it
// dropped.
func (i *IPRateLimiter) Sweep(cutoff time.Time) int {
	i.mu.Lock()
	defer i.mu.Unlock()

	n := 0
	for ip, c := range i.ips {
		if c.lastSeen.Before(cutoff) {
			delete(i.ips, ip)
			n++
		}
	}
	return n
}

// Len is the number of tracked clients.
func (i *IPRateLimiter) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ips)
}

// Run sweeps idle clients every interval until ctx is done.
func (i *IPRateLimiter) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			i.Sweep(now.Add(-idle))
		}
	}
}

// LimitMiddleware rejects requests over the client's budget with 429.
func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !i.getLimiter(clientIP(r)).Allow() {
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: errorDetail{
				Code:    "RATE_LIMITED",
				Message: "too many requests, try again later",
			}})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP is the remote host without the port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
