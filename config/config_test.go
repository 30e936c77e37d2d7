package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	// 空值回退到默认值
	for _, key := range []string{"PORT", "API_BASE_URL", "PAGE_SIZE", "MAX_PAGE_SIZE", "LOCALE", "GIN_MODE", "CACHE_STALE_TIME"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.APIBaseURL != "http://localhost:4000/api" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.PageSize != 10 || cfg.MaxPageSize != 100 {
		t.Errorf("PageSize/MaxPageSize = %d/%d, want 10/100", cfg.PageSize, cfg.MaxPageSize)
	}
	if cfg.Locale != "es" {
		t.Errorf("Locale = %q, want es", cfg.Locale)
	}
	if cfg.CacheStaleTime != 5*time.Minute {
		t.Errorf("CacheStaleTime = %v, want 5m", cfg.CacheStaleTime)
	}
	if !cfg.Debug() {
		t.Error("Debug() = false, want true by default")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_BASE_URL", "http://backend:4000/api")
	t.Setenv("CACHE_STALE_TIME", "30s")
	t.Setenv("PAGE_SIZE", "20")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("STRICT_VALIDATION", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.APIBaseURL != "http://backend:4000/api" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.CacheStaleTime != 30*time.Second {
		t.Errorf("CacheStaleTime = %v, want 30s", cfg.CacheStaleTime)
	}
	if cfg.CacheGCTime != 10*time.Minute {
		t.Errorf("CacheGCTime = %v, want default 10m", cfg.CacheGCTime)
	}
	if cfg.PageSize != 20 {
		t.Errorf("PageSize = %d, want 20", cfg.PageSize)
	}
	if len(cfg.AllowOrigins) != 2 || cfg.AllowOrigins[1] != "http://b.test" {
		t.Errorf("AllowOrigins = %v", cfg.AllowOrigins)
	}
	if cfg.Debug() {
		t.Error("Debug() = true for release mode")
	}
	if !cfg.StrictValidation {
		t.Error("StrictValidation = false, want true")
	}
}

func TestLoadConfigRejectsBadPageSize(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://backend")
	t.Setenv("PAGE_SIZE", "50")
	t.Setenv("MAX_PAGE_SIZE", "10")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() should reject MAX_PAGE_SIZE < PAGE_SIZE")
	}
}
