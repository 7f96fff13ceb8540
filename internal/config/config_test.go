package config

import (
	"testing"
	"time"
)

func TestLoadWithOptions_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PROFILE_SAMPLE_SIZE", "")
	t.Setenv("CACHE_TTL", "")

	cfg, err := LoadWithOptions(LoadOptions{RequireDatabaseURL: false})
	if err != nil {
		t.Fatalf("LoadWithOptions() error = %v", err)
	}
	if cfg.ProfileSampleSize != defaultProfileSampleSize {
		t.Fatalf("ProfileSampleSize = %d, want %d", cfg.ProfileSampleSize, defaultProfileSampleSize)
	}
	if cfg.CacheTTL != defaultCacheTTL {
		t.Fatalf("CacheTTL = %s, want %s", cfg.CacheTTL, defaultCacheTTL)
	}
	if cfg.DefaultRowPolicy != "deny_all" {
		t.Fatalf("DefaultRowPolicy = %q, want deny_all", cfg.DefaultRowPolicy)
	}
}

func TestLoadWithOptions_ParsesCacheTTL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CACHE_TTL", "90s")

	cfg, err := LoadWithOptions(LoadOptions{RequireDatabaseURL: false})
	if err != nil {
		t.Fatalf("LoadWithOptions() error = %v", err)
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Fatalf("CacheTTL = %s, want 90s", cfg.CacheTTL)
	}
}

func TestLoadWithOptions_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := LoadWithOptions(LoadOptions{RequireDatabaseURL: true}); err == nil {
		t.Fatalf("LoadWithOptions() error = nil, want missing DATABASE_URL")
	}
}

func TestLoadWithOptions_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PROFILE_WORKERS", "zero")

	cfg, err := LoadWithOptions(LoadOptions{RequireDatabaseURL: false})
	if err != nil {
		t.Fatalf("LoadWithOptions() error = %v", err)
	}
	if cfg.ProfileWorkers != defaultProfileWorkers {
		t.Fatalf("ProfileWorkers = %d, want %d", cfg.ProfileWorkers, defaultProfileWorkers)
	}
}
