package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"WDHOS_HTTP_PORT",
			"WDHOS_SQLITE_DSN",
			"WDHOS_SESSION_TTL",
			"WDHOS_SEED",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "" {
			t.Fatalf("expected empty DSN to select the in-memory store, got %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 24*time.Hour {
			t.Fatalf("expected default session TTL 24h, got %s", cfg.SessionTTL)
		}
		if !cfg.Seed {
			t.Fatal("expected seeding to default on")
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		t.Setenv("WDHOS_HTTP_PORT", "9090")
		t.Setenv("WDHOS_SQLITE_DSN", "file:/tmp/wdhos.db")
		t.Setenv("WDHOS_SESSION_TTL", "8h")
		t.Setenv("WDHOS_SEED", "false")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/tmp/wdhos.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 8*time.Hour {
			t.Fatalf("expected session TTL 8h, got %s", cfg.SessionTTL)
		}
		if cfg.Seed {
			t.Fatal("expected an explicit false to turn seeding off")
		}
	})

	t.Run("collects invalid values into one error", func(t *testing.T) {
		t.Setenv("WDHOS_HTTP_PORT", "-1")
		t.Setenv("WDHOS_SESSION_TTL", "soon")
		t.Setenv("WDHOS_SEED", "maybe")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for invalid values")
		}
		for _, key := range []string{"WDHOS_HTTP_PORT", "WDHOS_SESSION_TTL", "WDHOS_SEED"} {
			if !strings.Contains(err.Error(), key) {
				t.Fatalf("expected %s in error, got %q", key, err.Error())
			}
		}
	})
}
