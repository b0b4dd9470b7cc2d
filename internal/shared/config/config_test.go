package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"autotask-ml/internal/shared/telemetry"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"ENV", "PORT", "CORS_ALLOW_ORIGINS", "OBJECT_STORE", "CLASSIFIER_STRATEGY", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "DATABASE_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "5001" {
		t.Fatalf("expected default port 5001, got %q", cfg.Port)
	}
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %q", cfg.Env)
	}
	if !reflect.DeepEqual(cfg.CORSAllowOrigin, []string{"*"}) {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSAllowOrigin)
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("expected local store, got %q", cfg.ObjectStoreType)
	}
	if cfg.ClassifierStrategy != "keyword" {
		t.Fatalf("expected keyword strategy, got %q", cfg.ClassifierStrategy)
	}
	if cfg.RateLimitRPS != 20 || cfg.RateLimitBurst != 40 {
		t.Fatalf("unexpected rate limit: %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "prod")
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ALLOW_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("OBJECT_STORE", "S3")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "nope")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
	if cfg.Port != "9000" {
		t.Fatalf("expected port 9000, got %q", cfg.Port)
	}
	if !reflect.DeepEqual(cfg.CORSAllowOrigin, []string{"http://a.test", "http://b.test"}) {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSAllowOrigin)
	}
	if cfg.ObjectStoreType != "s3" {
		t.Fatalf("expected s3, got %q", cfg.ObjectStoreType)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rps 2.5, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst != 40 {
		t.Fatalf("expected fallback burst 40, got %d", cfg.RateLimitBurst)
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TAXONOMY_FILE=custom.yaml\nPORT=7000\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("PORT", "8000")
	t.Setenv("TAXONOMY_FILE", "")
	os.Unsetenv("TAXONOMY_FILE")

	cfg := Load()
	if cfg.TaxonomyFile != "custom.yaml" {
		t.Fatalf("expected taxonomy file from .env, got %q", cfg.TaxonomyFile)
	}
	if cfg.Port != "8000" {
		t.Fatalf("expected env to win over .env, got %q", cfg.Port)
	}
}

func TestIsDevLike(t *testing.T) {
	for env, want := range map[string]bool{"dev": true, " LOCAL ": true, "staging": false, "production": false} {
		if got := IsDevLike(env); got != want {
			t.Fatalf("IsDevLike(%q) = %v, want %v", env, got, want)
		}
	}
}

func TestLoadLogsInvalidValuesAsJSON(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "dev")
	t.Setenv("RATE_LIMIT_RPS", "fast")
	t.Setenv("RATE_LIMIT_BURST", "")

	var buf bytes.Buffer
	telemetry.SetOutput(&buf)
	t.Cleanup(func() { telemetry.SetOutput(os.Stdout) })

	cfg := Load()
	if cfg.RateLimitRPS != 20 {
		t.Fatalf("expected fallback rps 20, got %v", cfg.RateLimitRPS)
	}

	var entry map[string]any
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(strings.Split(line, "\n")[0]), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", line, err)
	}
	if entry["msg"] != "config.invalid_value" || entry["key"] != "RATE_LIMIT_RPS" || entry["level"] != "warning" {
		t.Fatalf("unexpected log entry %v", entry)
	}
}
