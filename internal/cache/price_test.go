package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writePriceTable(t *testing.T, table string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eth-prices.json")
	if err := os.WriteFile(path, []byte(table), 0644); err != nil {
		t.Fatalf("writing table: %v", err)
	}
	return path
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DayFormat, s)
	if err != nil {
		t.Fatalf("parsing day %q: %v", s, err)
	}
	return d
}

func TestPriceCacheStaticTable(t *testing.T) {
	path := writePriceTable(t, `{"2025-06-01": 2500.5, "2025-06-02": 2601}`)

	c, err := NewPriceCache(path)
	if err != nil {
		t.Fatalf("NewPriceCache: %v", err)
	}

	price, ok := c.StaticPrice(day(t, "2025-06-01"))
	if !ok || price != 2500.5 {
		t.Errorf("StaticPrice = (%v, %v), want (2500.5, true)", price, ok)
	}
	if _, ok := c.StaticPrice(day(t, "2025-06-03")); ok {
		t.Error("unexpected hit for a day outside the table")
	}
	if got := c.Stats().StaticEntries; got != 2 {
		t.Errorf("StaticEntries = %d, want 2", got)
	}
}

func TestPriceCacheMissingTableIsNotAnError(t *testing.T) {
	c, err := NewPriceCache(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("missing table must not fail: %v", err)
	}
	if got := c.Stats().StaticEntries; got != 0 {
		t.Errorf("StaticEntries = %d, want 0", got)
	}
}

func TestPriceCacheCorruptTableFails(t *testing.T) {
	path := writePriceTable(t, `{not json`)
	if _, err := NewPriceCache(path); err == nil {
		t.Fatal("corrupt table must fail loudly, not load empty")
	}
}

func TestPriceMemoizesFetches(t *testing.T) {
	c, _ := NewPriceCache("")

	fetches := 0
	fetch := func(_ context.Context, _ string, _ time.Time) (float64, error) {
		fetches++
		return 42.5, nil
	}

	d := day(t, "2025-06-01")
	for i := 0; i < 3; i++ {
		price, err := c.Price(context.Background(), "pepe", d, fetch)
		if err != nil {
			t.Fatalf("Price: %v", err)
		}
		if price != 42.5 {
			t.Errorf("price = %v, want 42.5", price)
		}
	}
	if fetches != 1 {
		t.Errorf("fetch called %d times, want 1", fetches)
	}
	if got := c.Stats().RuntimeEntries; got != 1 {
		t.Errorf("RuntimeEntries = %d, want 1", got)
	}
}

func TestPricePrefersStaticTableForEth(t *testing.T) {
	path := writePriceTable(t, `{"2025-06-01": 2500}`)
	c, err := NewPriceCache(path)
	if err != nil {
		t.Fatalf("NewPriceCache: %v", err)
	}

	fetch := func(_ context.Context, _ string, _ time.Time) (float64, error) {
		t.Fatal("fetch must not be called for a day in the static table")
		return 0, nil
	}

	price, err := c.Price(context.Background(), "ethereum", day(t, "2025-06-01"), fetch)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if price != 2500 {
		t.Errorf("price = %v, want 2500", price)
	}
}

func TestPriceDoesNotMemoizeNonPositive(t *testing.T) {
	c, _ := NewPriceCache("")

	fetches := 0
	fetch := func(_ context.Context, _ string, _ time.Time) (float64, error) {
		fetches++
		return 0, nil
	}

	d := day(t, "2025-06-01")
	for i := 0; i < 2; i++ {
		if _, err := c.Price(context.Background(), "pepe", d, fetch); err != nil {
			t.Fatalf("Price: %v", err)
		}
	}
	if fetches != 2 {
		t.Errorf("fetch called %d times, want 2 (zero price must not be cached)", fetches)
	}
}

func TestPricePropagatesFetchError(t *testing.T) {
	c, _ := NewPriceCache("")

	wantErr := errors.New("provider down")
	fetch := func(_ context.Context, _ string, _ time.Time) (float64, error) {
		return 0, wantErr
	}

	if _, err := c.Price(context.Background(), "pepe", day(t, "2025-06-01"), fetch); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestClearRuntimeKeepsStatic(t *testing.T) {
	path := writePriceTable(t, `{"2025-06-01": 2500}`)
	c, err := NewPriceCache(path)
	if err != nil {
		t.Fatalf("NewPriceCache: %v", err)
	}

	fetch := func(_ context.Context, _ string, _ time.Time) (float64, error) { return 7, nil }
	if _, err := c.Price(context.Background(), "pepe", day(t, "2025-06-01"), fetch); err != nil {
		t.Fatalf("Price: %v", err)
	}

	c.ClearRuntime()

	stats := c.Stats()
	if stats.RuntimeEntries != 0 {
		t.Errorf("RuntimeEntries = %d, want 0", stats.RuntimeEntries)
	}
	if stats.StaticEntries != 1 {
		t.Errorf("StaticEntries = %d, want 1", stats.StaticEntries)
	}
}
