package httpx

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/authlane/authlane-go/pkg/slogx"
)

// RateLimitConfig defines the rate limiting parameters.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

// Rate limit profiles for the route classes an SDK consumer typically has.
var (
	// StrictLimit for sign-in and other credential-bearing endpoints
	// (brute force prevention). 5 requests per minute, all available as a
	// burst.
	StrictLimit = RateLimitConfig{
		RequestsPerWindow: 5,
		Window:            time.Minute,
		Burst:             5,
	}

	// ModerateLimit for authenticated operations.
	ModerateLimit = RateLimitConfig{
		RequestsPerWindow: 20,
		Window:            time.Minute,
		Burst:             20,
	}

	// PublicLimit for public read-only endpoints.
	PublicLimit = RateLimitConfig{
		RequestsPerWindow: 1000,
		Window:            time.Minute,
		Burst:             1000,
	}
)

// KeyExtractor is a function that extracts a unique key from the request
// for rate limiting purposes (e.g., IP address, session ID, etc.)
type KeyExtractor func(*http.Request) string

// IPKeyExtractor extracts the client IP address from the request.
// It handles X-Forwarded-For and X-Real-IP headers for proxied requests.
func IPKeyExtractor(r *http.Request) string {
	// Check X-Forwarded-For header (comma-separated list)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fallback to RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// rateLimiter manages rate limiters for different keys
type rateLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

// getLimiter retrieves or creates a rate limiter for the given key
func (rl *rateLimiter) getLimiter(key string) *rate.Limiter {
	// Fast path: limiter already exists
	if limiter, ok := rl.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	// Slow path: create new limiter
	limiter := rate.NewLimiter(rl.rate, rl.burst)
	actual, _ := rl.limiters.LoadOrStore(key, limiter)

	// Periodic cleanup to prevent memory leak
	rl.maybeCleanup()

	return actual.(*rate.Limiter)
}

// maybeCleanup removes old limiters that haven't been used recently.
// This prevents memory leaks from accumulating limiters for ephemeral keys.
func (rl *rateLimiter) maybeCleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Only cleanup once every 5 minutes
	if time.Since(rl.lastCleanup) < 5*time.Minute {
		return
	}

	rl.lastCleanup = time.Now()

	// A limiter with a full token bucket hasn't been used lately.
	rl.limiters.Range(func(key, value any) bool {
		limiter := value.(*rate.Limiter)
		if limiter.Tokens() >= float64(rl.burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// RateLimit creates a rate limiting middleware with the given configuration.
// The keyExtractor determines how requests are grouped for rate limiting.
func RateLimit(config RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	ratePerSecond := float64(config.RequestsPerWindow) / config.Window.Seconds()

	rl := &rateLimiter{
		rate:        rate.Limit(ratePerSecond),
		burst:       config.Burst,
		lastCleanup: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyExtractor(r)
			if key == "" {
				// If we can't extract a key, allow the request but log it
				log.Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			limiter := rl.getLimiter(key)

			if !limiter.Allow() {
				// Tell the caller when the next token frees up
				reservation := limiter.Reserve()
				delay := reservation.Delay()
				reservation.Cancel() // Don't actually consume the reservation

				retryAfter := max(int(delay.Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				log.Warn("rate limit exceeded", "key", key, "retry_after_sec", retryAfter)
				WriteJSON(w, http.StatusTooManyRequests, map[string]string{
					"error": "rate limit exceeded",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
