// Command genprices builds the static ETH daily price table consumed by the
// price cache. Run it occasionally to refresh eth-prices.json; the runtime
// cache covers days the table misses.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/walletfacts/funfacts/internal/adapters/coingecko"
	"github.com/walletfacts/funfacts/internal/cache"
	"github.com/walletfacts/funfacts/internal/logging"
)

const (
	lookbackDays = 365
	// Free-tier CoinGecko allows roughly 30 calls per minute.
	requestDelay = 1500 * time.Millisecond
)

func main() {
	out := flag.String("out", "eth-prices.json", "output path for the price table")
	days := flag.Int("days", lookbackDays, "number of days to backfill")
	flag.Parse()

	_ = godotenv.Load()

	log := logging.New(os.Getenv("LOG_LEVEL"))
	gecko := coingecko.NewClient(os.Getenv("COINGECKO_API_KEY"), coingecko.DefaultBaseURL, log)

	ctx := context.Background()
	table := make(map[string]float64, *days)
	today := time.Now().UTC().Truncate(24 * time.Hour)

	for i := 0; i < *days; i++ {
		day := today.AddDate(0, 0, -i)
		key := day.Format(cache.DayFormat)

		price, err := gecko.HistoricalPrice(ctx, "ethereum", day)
		if err != nil {
			log.WithError(err).WithField("day", key).Warn("skipping day")
		} else if price > 0 {
			table[key] = price
		}

		if i < *days-1 {
			time.Sleep(requestDelay)
		}
		if (i+1)%25 == 0 {
			log.WithField("progress", fmt.Sprintf("%d/%d", i+1, *days)).Info("backfilling")
		}
	}

	if err := writeTable(*out, table); err != nil {
		log.WithError(err).Fatal("writing price table")
	}
	log.WithField("entries", len(table)).WithField("path", *out).Info("price table written")
}

// writeTable writes the table atomically so a concurrent reader never sees a
// partial file.
func writeTable(path string, table map[string]float64) error {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling table: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".eth-prices-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
