package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/walletfacts/funfacts/internal/core/domain"
)

// RedisConfig configures the optional shared ATH store.
type RedisConfig struct {
	Address   string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
	UseTLS    bool
	TTL       time.Duration
}

// RedisATHStore keeps ATH entries in Redis so repeated analyses across
// processes share one cache. Expiry is delegated to Redis TTLs.
type RedisATHStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

type redisATHEntry struct {
	Price float64   `json:"ath_price"`
	Date  time.Time `json:"ath_date"`
}

// NewRedisATHStore connects to Redis and verifies the connection. Callers
// should fall back to the in-memory cache when this fails; the store is an
// optimization, never a requirement.
func NewRedisATHStore(cfg RedisConfig) (*RedisATHStore, error) {
	opts := &redis.Options{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultATHCacheTTL
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "funfacts:ath:"
	}

	return &RedisATHStore{client: client, prefix: prefix, ttl: ttl}, nil
}

func (s *RedisATHStore) key(tokenAddress string) string {
	return s.prefix + strings.ToLower(tokenAddress)
}

// Get fetches a cached ATH. Any Redis error is treated as a miss so the
// caller falls through to a fresh fetch.
func (s *RedisATHStore) Get(ctx context.Context, tokenAddress string) (domain.ATHPoint, bool) {
	raw, err := s.client.Get(ctx, s.key(tokenAddress)).Result()
	if err != nil {
		s.misses.Add(1)
		return domain.ATHPoint{}, false
	}

	var entry redisATHEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		s.misses.Add(1)
		return domain.ATHPoint{}, false
	}

	s.hits.Add(1)
	return domain.ATHPoint{Price: entry.Price, Date: entry.Date}, true
}

// Set stores an ATH with the configured TTL. Write failures are ignored.
func (s *RedisATHStore) Set(ctx context.Context, tokenAddress string, point domain.ATHPoint) {
	data, err := json.Marshal(redisATHEntry{Price: point.Price, Date: point.Date})
	if err != nil {
		return
	}
	s.client.Set(ctx, s.key(tokenAddress), data, s.ttl)
}

// Cleanup is a no-op; Redis expires entries itself.
func (s *RedisATHStore) Cleanup() int { return 0 }

// Stats returns process-local hit/miss counters. Size is not tracked since
// the keyspace is shared.
func (s *RedisATHStore) Stats() ATHStats {
	hits := s.hits.Load()
	misses := s.misses.Load()
	total := hits + misses
	rate := 0.0
	if total > 0 {
		rate = math.Round(float64(hits)/float64(total)*100*100) / 100
	}
	return ATHStats{Hits: hits, Misses: misses, HitRate: rate}
}

// Close releases the underlying connection.
func (s *RedisATHStore) Close() error {
	return s.client.Close()
}
