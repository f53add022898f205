package config

import (
	"testing"
	"time"
)

func TestLoadRequiresNansenKey(t *testing.T) {
	t.Setenv("NANSEN_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without NANSEN_API_KEY")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NANSEN_API_KEY", "key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NansenBaseURL != "https://api.nansen.ai" {
		t.Errorf("NansenBaseURL = %q", cfg.NansenBaseURL)
	}
	if cfg.GeckoBaseURL != "https://api.coingecko.com/api/v3" {
		t.Errorf("GeckoBaseURL = %q", cfg.GeckoBaseURL)
	}
	if cfg.EthPriceTable != "eth-prices.json" {
		t.Errorf("EthPriceTable = %q", cfg.EthPriceTable)
	}
	if cfg.ATHCacheTTL != 24*time.Hour {
		t.Errorf("ATHCacheTTL = %v, want 24h", cfg.ATHCacheTTL)
	}
	if cfg.RedisEnabled {
		t.Error("RedisEnabled must default to false")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NANSEN_API_KEY", "key")
	t.Setenv("ATH_CACHE_TTL", "2h")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ATHCacheTTL != 2*time.Hour {
		t.Errorf("ATHCacheTTL = %v, want 2h", cfg.ATHCacheTTL)
	}
	if !cfg.RedisEnabled {
		t.Error("RedisEnabled = false, want true")
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d, want 3", cfg.RedisDB)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("NANSEN_API_KEY", "key")
	t.Setenv("ATH_CACHE_TTL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for an unparsable TTL")
	}
}
