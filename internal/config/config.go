package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/walletfacts/funfacts/internal/adapters/coingecko"
	"github.com/walletfacts/funfacts/internal/adapters/nansen"
	"github.com/walletfacts/funfacts/internal/cache"
)

// Config holds application-level configuration loaded from environment variables.
type Config struct {
	NansenAPIKey   string
	NansenBaseURL  string
	GeckoAPIKey    string
	GeckoBaseURL   string
	EthPriceTable  string
	ATHCacheTTL    time.Duration
	RedisEnabled   bool
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisTLS       bool
	RedisKeyPrefix string
	LogLevel       string
}

// Load reads configuration from the environment.
// NANSEN_API_KEY is required; everything else has a sensible default.
func Load() (*Config, error) {
	nansenKey := os.Getenv("NANSEN_API_KEY")
	if nansenKey == "" {
		return nil, fmt.Errorf("NANSEN_API_KEY environment variable is required")
	}

	cfg := &Config{
		NansenAPIKey:   nansenKey,
		NansenBaseURL:  envOr("NANSEN_BASE_URL", nansen.DefaultBaseURL),
		GeckoAPIKey:    os.Getenv("COINGECKO_API_KEY"),
		GeckoBaseURL:   envOr("COINGECKO_BASE_URL", coingecko.DefaultBaseURL),
		EthPriceTable:  envOr("ETH_PRICE_TABLE", "eth-prices.json"),
		ATHCacheTTL:    cache.DefaultATHCacheTTL,
		RedisAddr:      envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisKeyPrefix: envOr("REDIS_KEY_PREFIX", "funfacts:ath:"),
		LogLevel:       envOr("LOG_LEVEL", "info"),
	}

	if raw := os.Getenv("ATH_CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid ATH_CACHE_TTL %q: %w", raw, err)
		}
		cfg.ATHCacheTTL = ttl
	}

	cfg.RedisEnabled = envBool("REDIS_ENABLED")
	cfg.RedisTLS = envBool("REDIS_TLS")

	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", raw, err)
		}
		cfg.RedisDB = db
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
