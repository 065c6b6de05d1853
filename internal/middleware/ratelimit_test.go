package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/carwash-slot-booking/internal/config"
)

func limitedRequest(mw echo.MiddlewareFunc, userID string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/services/:id/reservations")
	if userID != "" {
		c.Set("user_id", userID)
	}
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	_ = h(c)
	return rec
}

func TestTokenBucket_Disabled(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)
	for i := 0; i < 50; i++ {
		if rec := limitedRequest(mw, "user-1"); rec.Code != http.StatusOK {
			t.Fatalf("disabled limiter blocked request %d: %d", i, rec.Code)
		}
	}
}

func TestTokenBucket_LocalFallback(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       3,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		KeyStrategy:    "user",
		Prefix:         "rl",
	}
	mw := NewTokenBucket(cfg, nil)

	for i := 0; i < cfg.Capacity; i++ {
		if rec := limitedRequest(mw, "user-1"); rec.Code != http.StatusOK {
			t.Fatalf("request %d within capacity blocked: %d", i, rec.Code)
		}
	}
	rec := limitedRequest(mw, "user-1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 past capacity, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header on 429")
	}

	// A different key owns its own bucket.
	if rec := limitedRequest(mw, "user-2"); rec.Code != http.StatusOK {
		t.Fatalf("other user blocked by exhausted bucket: %d", rec.Code)
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/services/:id/reservations")
	c.Set("user_id", "user-1")

	cases := []struct {
		strategy string
		want     string
	}{
		{"user", "rl:user:user-1"},
		{"route", "rl:route:POST /v1/services/:id/reservations"},
		{"user_route", "rl:user:user-1:route:POST /v1/services/:id/reservations"},
	}
	for _, tc := range cases {
		cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: tc.strategy}
		if got := buildRateKey(cfg, c); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.strategy, got, tc.want)
		}
	}
}
