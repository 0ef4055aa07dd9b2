package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/phrazzld/tasktrack/internal/api/shared"
	"golang.org/x/time/rate"
)

// RateLimiterConfig holds settings for the authentication rate limiter.
type RateLimiterConfig struct {
	Rate            rate.Limit    // allowed requests per second per client
	Burst           int           // burst size per client
	CleanupInterval time.Duration // how often stale client entries are dropped
	ClientTTL       time.Duration // how long an idle client entry is kept
}

// DefaultRateLimiterConfig returns the default limits for the auth endpoints:
// 30 requests per minute per client IP with a burst of 10.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Rate:            rate.Limit(30.0 / 60.0),
		Burst:           10,
		CleanupInterval: 5 * time.Minute,
		ClientTTL:       10 * time.Minute,
	}
}

// clientLimiter pairs a token bucket with its last access time.
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter applies a per-client-IP token bucket to the unauthenticated
// auth endpoints. Authenticated routes carry a principal and are not limited
// here; login and registration are the only surfaces open to credential
// guessing.
type RateLimiter struct {
	config RateLimiterConfig

	mu       sync.Mutex
	limiters map[string]*clientLimiter

	stopCh chan struct{}
}

// NewRateLimiter creates a new RateLimiter and starts the background cleanup
// of stale client entries.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:   config,
		limiters: make(map[string]*clientLimiter),
		stopCh:   make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop terminates the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// Limit is the middleware entry point. Requests beyond the per-client budget
// receive 429 with a JSON error body.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := clientAddr(r)

		if !rl.getOrCreateLimiter(clientIP).Allow() {
			slog.Warn("rate limit exceeded",
				slog.String("client_ip", clientIP),
				slog.String("path", r.URL.Path))
			shared.RespondWithError(w, r, http.StatusTooManyRequests, "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ClientCount returns the number of tracked client entries. For tests and metrics.
func (rl *RateLimiter) ClientCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// getOrCreateLimiter fetches or creates the token bucket for a client.
func (rl *RateLimiter) getOrCreateLimiter(clientIP string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if cl, ok := rl.limiters[clientIP]; ok {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	cl := &clientLimiter{
		limiter:    rate.NewLimiter(rl.config.Rate, rl.config.Burst),
		lastAccess: time.Now(),
	}
	rl.limiters[clientIP] = cl
	return cl.limiter
}

// cleanupLoop periodically drops entries that have been idle past ClientTTL.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-rl.config.ClientTTL)
			rl.mu.Lock()
			for ip, cl := range rl.limiters {
				if cl.lastAccess.Before(cutoff) {
					delete(rl.limiters, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// clientAddr derives the limiter key from the request's remote address.
// chi's RealIP middleware has already rewritten RemoteAddr from
// X-Forwarded-For / X-Real-IP when the service sits behind a proxy.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
