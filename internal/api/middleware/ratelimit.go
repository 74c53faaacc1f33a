package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/stakeplay/tictactoe-go/internal/api/apierr"
)

// RateLimitConfig controls the per-client token bucket
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	// ClientTTL is how long an idle client's limiter is retained
	ClientTTL time.Duration
}

// DefaultRateLimitConfig allows bursts of UI traffic while keeping
// sustained request rates bounded
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 10,
		Burst:             30,
		ClientTTL:         15 * time.Minute,
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit creates middleware that rate-limits requests per client IP
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	var (
		mu      sync.Mutex
		clients = make(map[string]*clientLimiter)
	)

	getLimiter := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		if cl, ok := clients[ip]; ok {
			cl.lastSeen = now
			return cl.limiter
		}

		// Evict idle clients while we hold the lock
		for key, cl := range clients {
			if now.Sub(cl.lastSeen) > cfg.ClientTTL {
				delete(clients, key)
			}
		}

		cl := &clientLimiter{
			limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
			lastSeen: now,
		}
		clients[ip] = cl
		return cl.limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !getLimiter(ip).Allow() {
				apierr.WriteError(w, apierr.NewRateLimitedError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
