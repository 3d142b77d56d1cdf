// CLAUDE:SUMMARY Per-IP token bucket rate limiter, X-Forwarded-For aware, JSON 429 on rejection.
package shield

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimitConfig defines the per-client request budget.
type RateLimitConfig struct {
	// RatePerSecond is the sustained refill rate of each client bucket.
	RatePerSecond float64
	// Burst is the bucket capacity: requests a client can make at once
	// after being idle.
	Burst float64
}

type bucket struct {
	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// RateLimiter provides per-IP token bucket rate limiting. Buckets refill
// continuously at RatePerSecond up to Burst. Idle buckets are garbage
// collected once full again.
type RateLimiter struct {
	cfg     RateLimitConfig
	buckets sync.Map
	now     func() time.Time // test hook
}

// NewRateLimiter creates a rate limiter with the given budget. Call
// StartGC to enable periodic cleanup of idle buckets.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	return &RateLimiter{cfg: cfg, now: time.Now}
}

// StartGC starts a background goroutine that drops refilled buckets
// every 5 minutes. Stops when done is closed.
func (rl *RateLimiter) StartGC(done <-chan struct{}) {
	tick := time.NewTicker(5 * time.Minute)
	go func() {
		defer tick.Stop()
		for {
			select {
			case <-done:
				return
			case <-tick.C:
				rl.gc()
			}
		}
	}()
}

func (rl *RateLimiter) gc() {
	rl.buckets.Range(func(key, value any) bool {
		b := value.(*bucket)
		b.mu.Lock()
		full := rl.refill(b) >= rl.cfg.Burst
		b.mu.Unlock()
		if full {
			rl.buckets.Delete(key)
		}
		return true
	})
}

// refill advances the bucket clock and returns the token count.
// Caller holds b.mu.
func (rl *RateLimiter) refill(b *bucket) float64 {
	now := rl.now()
	b.tokens += now.Sub(b.last).Seconds() * rl.cfg.RatePerSecond
	if b.tokens > rl.cfg.Burst {
		b.tokens = rl.cfg.Burst
	}
	b.last = now
	return b.tokens
}

// Allow reports whether a request from ip fits the budget and consumes
// one token when it does.
func (rl *RateLimiter) Allow(ip string) bool {
	val, loaded := rl.buckets.LoadOrStore(ip, &bucket{
		tokens: rl.cfg.Burst - 1,
		last:   rl.now(),
	})
	if !loaded {
		return true
	}
	b := val.(*bucket)
	b.mu.Lock()
	defer b.mu.Unlock()
	if rl.refill(b) < 1 {
		return false
	}
	b.tokens--
	return true
}

// Middleware enforces the rate limit, answering rejected requests with
// a JSON 429 and a Retry-After hint.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ExtractIP(r)
		if rl.Allow(ip) {
			next.ServeHTTP(w, r)
			return
		}

		slog.Warn("ratelimit: request blocked", "ip", ip, "path", r.URL.Path)

		w.Header().Set("Retry-After", "1")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "rate limit exceeded",
		})
	})
}

// ExtractIP returns the client IP from X-Forwarded-For or RemoteAddr.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return strings.TrimSpace(xff[:i])
			}
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
