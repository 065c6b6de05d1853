package config

import (
	"testing"
	"time"
)

func TestLoadRateLimitConfig_Defaults(t *testing.T) {
	cfg := LoadRateLimitConfig()
	if !cfg.Enabled {
		t.Fatalf("limiter should default to enabled")
	}
	if cfg.Capacity != 60 || cfg.RefillTokens != 1 || cfg.RefillInterval != time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.KeyStrategy != "ip_user_route" || cfg.Prefix != "rl" {
		t.Fatalf("unexpected key defaults: %+v", cfg)
	}
}

func TestLoadRateLimitConfig_Overrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "off")
	t.Setenv("RATE_LIMIT_CAPACITY", "10")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "250ms")
	t.Setenv("RATE_LIMIT_KEY_STRATEGY", "user")

	cfg := LoadRateLimitConfig()
	if cfg.Enabled {
		t.Fatalf("expected limiter disabled")
	}
	if cfg.Capacity != 10 || cfg.RefillInterval != 250*time.Millisecond || cfg.KeyStrategy != "user" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadRateLimitConfig_Floors(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 || cfg.RefillTokens != 1 {
		t.Fatalf("floors not applied: %+v", cfg)
	}
	// TTL must cover several refill intervals so bucket state outlives
	// the window it accounts for.
	if cfg.TTL != 5*time.Minute {
		t.Fatalf("TTL floor not applied: %v", cfg.TTL)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_STR", "hello")
	t.Setenv("X_BOOL", "yes")
	t.Setenv("X_INT", "42")
	t.Setenv("X_DUR", "1500ms")
	t.Setenv("X_BAD_INT", "forty")

	if got := envStr("X_STR", "d"); got != "hello" {
		t.Fatalf("envStr: %q", got)
	}
	if got := envStr("X_MISSING", "d"); got != "d" {
		t.Fatalf("envStr default: %q", got)
	}
	if !envBool("X_BOOL", false) {
		t.Fatalf("envBool should parse yes")
	}
	if got := envInt("X_INT", 0); got != 42 {
		t.Fatalf("envInt: %d", got)
	}
	if got := envInt("X_BAD_INT", 7); got != 7 {
		t.Fatalf("envInt should fall back on parse error: %d", got)
	}
	if got := envDur("X_DUR", 0); got != 1500*time.Millisecond {
		t.Fatalf("envDur: %v", got)
	}
}
