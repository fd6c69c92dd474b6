package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DENOMINATIONS", "MAX_AMOUNT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "REDIS_ADDR", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if want := []int{50, 25, 10, 5, 2, 1}; !slices.Equal(cfg.Denominations, want) {
		t.Fatalf("expected default denominations %v, got %v", want, cfg.Denominations)
	}
	if cfg.MaxAmount != defaultMaxAmount {
		t.Fatalf("unexpected max amount: %d", cfg.MaxAmount)
	}
	if len(cfg.Samples) != 4 {
		t.Fatalf("expected default samples, got %v", cfg.Samples)
	}
	if cfg.ShutdownGracePeriod != 10*time.Second {
		t.Fatalf("unexpected shutdown grace period: %s", cfg.ShutdownGracePeriod)
	}
	if cfg.RedisAddr != "" {
		t.Fatalf("expected redis to be disabled by default, got %q", cfg.RedisAddr)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DENOMINATIONS", "30, 20 , 5")
	t.Setenv("MAX_AMOUNT", "5000")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Fatalf("expected overridden port, got %s", cfg.Port)
	}
	if want := []int{30, 20, 5}; !slices.Equal(cfg.Denominations, want) {
		t.Fatalf("unexpected denominations: %v", cfg.Denominations)
	}
	if cfg.MaxAmount != 5000 {
		t.Fatalf("unexpected max amount: %d", cfg.MaxAmount)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("unexpected redis address: %s", cfg.RedisAddr)
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	t.Setenv("DENOMINATIONS", "3,1")

	path := writeConfigFile(t, `
port: "7100"
denominations: [25, 10, 5, 1]
max_amount: 1000
enable_request_logging: false
rate_limit:
  rps: 0
cache:
  redis_addr: "redis:6379"
  ttl: 5m
samples:
  - amount: 63
    denominations: [25, 10, 1]
`)

	port := "7200"
	cfg, err := Load(&CLIOverrides{ConfigFile: path, Port: &port})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "7200" {
		t.Fatalf("expected CLI port to win, got %s", cfg.Port)
	}
	if want := []int{25, 10, 5, 1}; !slices.Equal(cfg.Denominations, want) {
		t.Fatalf("expected YAML denominations to beat env, got %v", cfg.Denominations)
	}
	if cfg.MaxAmount != 1000 {
		t.Fatalf("unexpected max amount: %d", cfg.MaxAmount)
	}
	if cfg.EnableRequestLogging {
		t.Fatalf("expected request logging disabled by YAML")
	}
	if cfg.RateLimitRPS != 0 {
		t.Fatalf("expected explicit zero rps from YAML, got %v", cfg.RateLimitRPS)
	}
	if cfg.RedisAddr != "redis:6379" || cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("unexpected cache settings: %s %s", cfg.RedisAddr, cfg.CacheTTL)
	}
	if len(cfg.Samples) != 1 || cfg.Samples[0].Amount != 63 {
		t.Fatalf("unexpected samples: %v", cfg.Samples)
	}
}

func TestLoadRejectsInvalidInput(t *testing.T) {
	clearEnv(t)

	t.Run("bad duration", func(t *testing.T) {
		path := writeConfigFile(t, "write_timeout: soon\n")
		if _, err := Load(&CLIOverrides{ConfigFile: path}); err == nil {
			t.Fatalf("expected error for invalid duration")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "absent.yaml")}); err == nil {
			t.Fatalf("expected error for missing file")
		}
	})

	t.Run("bad CLI denominations", func(t *testing.T) {
		raw := "5,x"
		if _, err := Load(&CLIOverrides{DenominationsStr: &raw}); err == nil {
			t.Fatalf("expected error for invalid denominations")
		}
	})

	t.Run("bad sample", func(t *testing.T) {
		path := writeConfigFile(t, "samples:\n  - amount: -1\n    denominations: [1]\n")
		if _, err := Load(&CLIOverrides{ConfigFile: path}); err == nil {
			t.Fatalf("expected error for negative sample amount")
		}
	})
}

func TestParseDenominations(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := ParseDenominations("5,20,30")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := []int{5, 20, 30}; !slices.Equal(got, want) {
			t.Fatalf("unexpected denominations: %v", got)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := ParseDenominations(" , "); err == nil {
			t.Fatalf("expected error for empty string")
		}
		if _, err := ParseDenominations("1,a"); err == nil {
			t.Fatalf("expected error for invalid integer")
		}
		if _, err := ParseDenominations("1,0"); err == nil {
			t.Fatalf("expected error for zero denomination")
		}
	})
}
