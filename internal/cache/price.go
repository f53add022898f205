package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// DayFormat is the calendar-day key format used by the price caches.
const DayFormat = "2006-01-02"

// ethCoinID is the only asset with a pre-computed table.
const ethCoinID = "ethereum"

// FetchFunc resolves a price for a coin ID on a calendar day.
type FetchFunc func(ctx context.Context, coinID string, day time.Time) (float64, error)

// PriceCacheStats describes the two tiers of the price cache.
type PriceCacheStats struct {
	StaticEntries  int
	RuntimeEntries int
}

// PriceCache is a two-tier (asset, calendar day) -> USD price lookup: a
// static pre-computed ETH table loaded once, plus a runtime memo for prices
// fetched during execution. Both tiers live for the process lifetime.
type PriceCache struct {
	mu      sync.RWMutex
	static  map[string]float64 // yyyy-mm-dd -> ETH price
	runtime map[string]float64 // "coinID:yyyy-mm-dd" -> price
}

// NewPriceCache loads the static ETH price table from tablePath. A missing
// or unreadable table is not an error; the cache starts empty and every
// lookup goes through the runtime tier.
func NewPriceCache(tablePath string) (*PriceCache, error) {
	c := &PriceCache{
		static:  make(map[string]float64),
		runtime: make(map[string]float64),
	}

	if tablePath == "" {
		return c, nil
	}

	data, err := os.ReadFile(tablePath)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("failed to read price table: %w", err)
	}

	if err := json.Unmarshal(data, &c.static); err != nil {
		return nil, fmt.Errorf("failed to parse price table %s: %w", tablePath, err)
	}

	return c, nil
}

// StaticPrice returns the pre-computed ETH price for a day, if present.
func (c *PriceCache) StaticPrice(day time.Time) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	price, ok := c.static[day.UTC().Format(DayFormat)]
	return price, ok
}

// Price resolves the USD price of coinID on a calendar day: runtime memo
// first, then the static table (ETH only), then fetch. Only positive fetched
// prices are memoized, so a transient zero does not poison the cache.
func (c *PriceCache) Price(ctx context.Context, coinID string, day time.Time, fetch FetchFunc) (float64, error) {
	key := coinID + ":" + day.UTC().Format(DayFormat)

	c.mu.RLock()
	price, ok := c.runtime[key]
	c.mu.RUnlock()
	if ok {
		return price, nil
	}

	if coinID == ethCoinID {
		if price, ok := c.StaticPrice(day); ok {
			c.mu.Lock()
			c.runtime[key] = price
			c.mu.Unlock()
			return price, nil
		}
	}

	price, err := fetch(ctx, coinID, day)
	if err != nil {
		return 0, err
	}
	if price > 0 {
		c.mu.Lock()
		c.runtime[key] = price
		c.mu.Unlock()
	}
	return price, nil
}

// ClearRuntime drops the runtime tier. The static table is untouched.
func (c *PriceCache) ClearRuntime() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runtime = make(map[string]float64)
}

// Stats returns entry counts for both tiers.
func (c *PriceCache) Stats() PriceCacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return PriceCacheStats{
		StaticEntries:  len(c.static),
		RuntimeEntries: len(c.runtime),
	}
}
