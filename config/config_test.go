package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")
	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q", cfg.ServerPort)
	}
	if cfg.UpcomingWindowDays != 14 || cfg.WeeklyWindowDays != 6 || cfg.UpcomingLimit != 6 {
		t.Errorf("windows = %d/%d/%d", cfg.UpcomingWindowDays, cfg.WeeklyWindowDays, cfg.UpcomingLimit)
	}
	if cfg.RefreshSpec != "@every 30s" {
		t.Errorf("RefreshSpec = %q", cfg.RefreshSpec)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.Location != time.UTC {
		t.Errorf("Location = %v", cfg.Location)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://api.example.test/v2/")
	t.Setenv("UPCOMING_LIMIT", "10")
	t.Setenv("CORS_ORIGINS", "https://a.test, https://b.test,,")
	t.Setenv("TIMEZONE", "Not/AZone")

	cfg := Load()
	if cfg.BackendURL != "https://api.example.test/v2" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.UpcomingLimit != 10 {
		t.Errorf("UpcomingLimit = %d", cfg.UpcomingLimit)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.test" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.Location != time.UTC {
		t.Errorf("bad TIMEZONE must fall back to UTC, got %v", cfg.Location)
	}
}
