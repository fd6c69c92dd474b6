package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticLimiter struct {
	allow bool
}

func (s *staticLimiter) Allow() bool {
	return s.allow
}

func TestRateLimitMiddlewareRejectsWithRetryAfter(t *testing.T) {
	middleware := rateLimitMiddleware(&staticLimiter{allow: false}, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler should not execute when rate limited")
	}))

	rec := httptest.NewRecorder()
	middleware.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/compare", nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("expected Retry-After 1, got %q", got)
	}

	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "Too many requests" || body.Suggestion == "" {
		t.Fatalf("unexpected error body %+v", body)
	}
}

func TestRateLimitMiddlewarePassesWhenLimiterAllows(t *testing.T) {
	var called bool
	middleware := rateLimitMiddleware(&staticLimiter{allow: true}, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	middleware.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if !called {
		t.Fatalf("expected handler to execute when limiter allows")
	}
}

func TestRateLimitMiddlewareWithoutLimiterReturnsNext(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	middleware := rateLimitMiddleware(nil, next)

	rec := httptest.NewRecorder()
	middleware.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestNewTokenBucketLimiter(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		disabled bool
	}{
		{"Enabled", 2, 3, false},
		{"ZeroRate", 0, 3, true},
		{"ZeroBurst", 2, 0, true},
		{"NegativeBurst", 2, -1, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			limiter := newTokenBucketLimiter(tc.rps, tc.burst)
			if tc.disabled {
				if limiter != nil {
					t.Fatalf("expected no limiter for rps=%v burst=%d", tc.rps, tc.burst)
				}
				return
			}
			if limiter == nil {
				t.Fatalf("expected limiter instance")
			}
			for i := 0; i < tc.burst; i++ {
				if !limiter.Allow() {
					t.Fatalf("request %d within burst should be allowed", i)
				}
			}
			if limiter.Allow() {
				t.Fatalf("request beyond burst should be refused")
			}
		})
	}
}
