package api

import (
	"net/http"

	"golang.org/x/time/rate"
)

type rateLimiter interface {
	Allow() bool
}

// newTokenBucketLimiter returns nil, meaning no limiting, unless both the
// refill rate and the burst are positive.
func newTokenBucketLimiter(ratePerSecond float64, burst int) rateLimiter {
	if ratePerSecond <= 0 || burst <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(ratePerSecond), burst)
}

// rateLimitMiddleware rejects requests the limiter refuses with 429 and a
// Retry-After hint. A nil limiter leaves next unwrapped.
func rateLimitMiddleware(limiter rateLimiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "Too many requests", "rate limit exceeded", "Retry after a second or batch amounts into one compare request")
			return
		}
		next.ServeHTTP(w, r)
	})
}
