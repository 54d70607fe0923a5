package config_test

import (
	"os"
	"testing"

	"github.com/ajstars1/0unveiled-leaderboard/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	t.Setenv("CRON_SECRET", "s3cret")
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	// t.Setenv registers the restore; Unsetenv then clears it for the test.
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoad_FrontendURLDefaultsToFirstOrigin(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com,https://staging.example.com")
	unsetEnv(t, "FRONTEND_URL")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}

	if cfg.FrontendURL != "https://app.example.com" {
		t.Errorf("FrontendURL = %q, want first allowed origin", cfg.FrontendURL)
	}
}

func TestLoad_FrontendURLOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com,https://staging.example.com")
	t.Setenv("FRONTEND_URL", "https://www.example.com")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}

	if cfg.FrontendURL != "https://www.example.com" {
		t.Errorf("FrontendURL = %q, want the explicit override", cfg.FrontendURL)
	}
}

func TestLoad_RequiredValues(t *testing.T) {
	setRequiredEnv(t)
	unsetEnv(t, "DATABASE_URL")

	if _, err := config.Load(); err == nil {
		t.Error("Load should fail without DATABASE_URL")
	}

	setRequiredEnv(t)
	unsetEnv(t, "CRON_SECRET")

	if _, err := config.Load(); err == nil {
		t.Error("Load should fail without CRON_SECRET")
	}
}
