package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter provides per-client-IP rate limiting
type RateLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	cleanup  *time.Ticker
}

// NewRateLimiter creates a new rate limiter with the specified rate and burst
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		rate:    rate.Limit(requestsPerSecond),
		burst:   burst,
		cleanup: time.NewTicker(time.Minute),
	}

	// Start cleanup goroutine to remove old limiters
	go rl.cleanupOldLimiters()

	return rl
}

// getLimiter gets or creates a rate limiter for the given key
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	limiter, exists := rl.limiters.Load(key)
	if !exists {
		newLimiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Store(key, newLimiter)
		return newLimiter
	}
	return limiter.(*rate.Limiter)
}

// cleanupOldLimiters removes limiters that haven't been used recently
func (rl *RateLimiter) cleanupOldLimiters() {
	for {
		<-rl.cleanup.C
		rl.limiters.Range(func(key, value interface{}) bool {
			limiter := value.(*rate.Limiter)
			// If limiter has been idle and has tokens available, it's safe to remove
			if limiter.Tokens() == float64(rl.burst) {
				rl.limiters.Delete(key)
			}
			return true
		})
	}
}

// getClientIP extracts the real client IP from the request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (for proxies/load balancers)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take the first IP if there are multiple
		if ips := strings.Split(xff, ","); len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fall back to RemoteAddr
	ip := r.RemoteAddr
	if colonIndex := strings.LastIndex(ip, ":"); colonIndex != -1 {
		ip = ip[:colonIndex]
	}
	return ip
}

// RateLimit returns a middleware that limits requests per IP
func (rl *RateLimiter) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r)
		limiter := rl.getLimiter(ip)

		if !limiter.Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": "Rate limit exceeded. Please try again later."}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Close stops the cleanup ticker
func (rl *RateLimiter) Close() {
	rl.cleanup.Stop()
}

// NewAPIRateLimiter provides general API rate limiting
func NewAPIRateLimiter() *RateLimiter {
	// Allow 10 requests per second per IP with burst of 20
	return NewRateLimiter(10.0, 20)
}

// NewSubmitRateLimiter limits the submission endpoint, which fans out to the
// judge backend and is by far the most expensive call in the system
func NewSubmitRateLimiter() *RateLimiter {
	// Allow 1 submission per second per IP with a small burst
	return NewRateLimiter(1.0, 3)
}
