package cache

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/walletfacts/funfacts/internal/core/domain"
)

// DefaultATHCacheTTL is how long a cached all-time high stays fresh. ATH
// prices only move when a new high is set, so a day is safe.
const DefaultATHCacheTTL = 24 * time.Hour

// ATHStore is the mutation surface shared by the in-memory cache and the
// optional Redis-backed store.
type ATHStore interface {
	Get(ctx context.Context, tokenAddress string) (domain.ATHPoint, bool)
	Set(ctx context.Context, tokenAddress string, point domain.ATHPoint)
	Stats() ATHStats
	Cleanup() int
}

// ATHStats is hit/miss accounting for an ATH store.
type ATHStats struct {
	Size    int
	Hits    int64
	Misses  int64
	HitRate float64
}

type athEntry struct {
	point    domain.ATHPoint
	cachedAt time.Time
}

// ATHCache is a time-boxed in-memory memo mapping token address to its
// previously fetched all-time high. Entries older than the TTL are evicted
// lazily on the next read.
type ATHCache struct {
	mu      sync.Mutex
	entries map[string]athEntry
	ttl     time.Duration
	hits    int64
	misses  int64

	now func() time.Time // clock, swapped in tests
}

// NewATHCache creates an ATH cache. A non-positive ttl falls back to
// DefaultATHCacheTTL.
func NewATHCache(ttl time.Duration) *ATHCache {
	if ttl <= 0 {
		ttl = DefaultATHCacheTTL
	}
	return &ATHCache{
		entries: make(map[string]athEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached ATH for a token address if present and fresh.
// A stale entry is removed and counted as a miss.
func (c *ATHCache) Get(_ context.Context, tokenAddress string) (domain.ATHPoint, bool) {
	key := strings.ToLower(tokenAddress)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return domain.ATHPoint{}, false
	}

	if c.now().Sub(entry.cachedAt) > c.ttl {
		delete(c.entries, key)
		c.misses++
		return domain.ATHPoint{}, false
	}

	c.hits++
	return entry.point, true
}

// Set stores the ATH for a token address, resetting its age.
func (c *ATHCache) Set(_ context.Context, tokenAddress string, point domain.ATHPoint) {
	key := strings.ToLower(tokenAddress)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = athEntry{point: point, cachedAt: c.now()}
}

// Has reports whether a fresh entry exists. Counts toward hit/miss stats.
func (c *ATHCache) Has(ctx context.Context, tokenAddress string) bool {
	_, ok := c.Get(ctx, tokenAddress)
	return ok
}

// Clear drops all entries and resets the counters.
func (c *ATHCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]athEntry)
	c.hits = 0
	c.misses = 0
}

// Cleanup removes expired entries eagerly and returns how many were dropped.
func (c *ATHCache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if now.Sub(entry.cachedAt) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Stats returns size and hit/miss counters. HitRate is a percentage rounded
// to two decimals.
func (c *ATHCache) Stats() ATHStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	rate := 0.0
	if total > 0 {
		rate = math.Round(float64(c.hits)/float64(total)*100*100) / 100
	}
	return ATHStats{
		Size:    len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: rate,
	}
}
