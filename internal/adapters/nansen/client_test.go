package nansen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/walletfacts/funfacts/internal/core/domain"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestTransactions(t *testing.T) {
	var gotBody transactionsRequest
	var gotAPIKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/profiler/address/transactions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotAPIKey = r.Header.Get("apiKey")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decoding request: %v", err)
		}

		fmt.Fprint(w, `{
			"data": [{
				"block_timestamp": "2025-06-01T10:30:00Z",
				"transaction_hash": "0xhash1",
				"chain": "ethereum",
				"volume_usd": 1500,
				"tokens_received": [{"token_address": "0xtok", "token_symbol": "TOK", "token_amount": 42.5, "value_usd": 1500}]
			}, {
				"block_timestamp": "2025-05-20T08:00:00",
				"transaction_hash": "0xhash2",
				"chain": "ethereum",
				"volume_usd": 300,
				"tokens_sent": [{"token_address": "0xtok", "token_symbol": "TOK", "token_amount": 10}]
			}],
			"pagination": {"page": 1, "is_last_page": true}
		}`)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, testLogger())

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	txs, err := client.Transactions(context.Background(), domain.TransactionQuery{
		Address:      "0xwallet",
		Chain:        "ethereum",
		From:         from,
		To:           to,
		MinVolumeUSD: 10,
	})
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}

	if gotAPIKey != "test-key" {
		t.Errorf("apiKey header = %q, want test-key", gotAPIKey)
	}
	if gotBody.Address != "0xwallet" || gotBody.Chain != "ethereum" {
		t.Errorf("request body = %+v", gotBody)
	}
	if gotBody.Date == nil || gotBody.Date.From != from.Format(time.RFC3339) {
		t.Errorf("date range = %+v, want from %s", gotBody.Date, from.Format(time.RFC3339))
	}
	if gotBody.Filters == nil || gotBody.Filters.VolumeUSD == nil || gotBody.Filters.VolumeUSD.Min != 10 {
		t.Errorf("volume filter = %+v, want min 10", gotBody.Filters)
	}
	if !gotBody.HideSpamToken {
		t.Error("hide_spam_token must be set")
	}

	if len(txs) != 2 {
		t.Fatalf("len(txs) = %d, want 2", len(txs))
	}
	want := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	if !txs[0].Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", txs[0].Timestamp, want)
	}
	if !txs[0].IsBuy() {
		t.Error("transaction with received tokens and volume must be a buy")
	}
	if txs[1].IsBuy() {
		t.Error("sell-only transaction must not be a buy")
	}
	// Zone-less timestamp still parses.
	if txs[1].Timestamp.IsZero() {
		t.Error("zone-less block_timestamp failed to parse")
	}
	if txs[0].TokensReceived[0].Amount != 42.5 {
		t.Errorf("Amount = %v, want 42.5", txs[0].TokensReceived[0].Amount)
	}
}

func TestBalancesPagination(t *testing.T) {
	var pages atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req balanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		pages.Add(1)

		last := req.Pagination.Page >= 3
		fmt.Fprintf(w, `{
			"data": [{"token_address": "0xtok%d", "token_symbol": "T%d", "chain": "ethereum", "balance": "10", "value_usd": 100, "price_usd": 10}],
			"pagination": {"page": %d, "is_last_page": %t}
		}`, req.Pagination.Page, req.Pagination.Page, req.Pagination.Page, last)
	}))
	defer server.Close()

	client := NewClient("k", server.URL, testLogger())

	balances, err := client.Balances(context.Background(), domain.BalanceQuery{
		Address:  "0xwallet",
		Chain:    "all",
		AllPages: true,
	})
	if err != nil {
		t.Fatalf("Balances: %v", err)
	}
	if pages.Load() != 3 {
		t.Errorf("pages fetched = %d, want 3", pages.Load())
	}
	if len(balances) != 3 {
		t.Fatalf("len(balances) = %d, want 3", len(balances))
	}
	if balances[0].TokenAddress != "0xtok1" || balances[2].TokenAddress != "0xtok3" {
		t.Errorf("balances out of order: %v, %v", balances[0].TokenAddress, balances[2].TokenAddress)
	}
	if balances[0].Balance != "10" || balances[0].PriceUSD != 10 {
		t.Errorf("row mapping wrong: %+v", balances[0])
	}
}

func TestBalancesSinglePageByDefault(t *testing.T) {
	var pages atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages.Add(1)
		fmt.Fprint(w, `{
			"data": [{"token_address": "0xtok", "chain": "ethereum", "value_usd": 100}],
			"pagination": {"page": 1, "is_last_page": false}
		}`)
	}))
	defer server.Close()

	client := NewClient("k", server.URL, testLogger())

	if _, err := client.Balances(context.Background(), domain.BalanceQuery{Address: "0xwallet", Chain: "all"}); err != nil {
		t.Fatalf("Balances: %v", err)
	}
	if pages.Load() != 1 {
		t.Errorf("pages fetched = %d, want 1 without AllPages", pages.Load())
	}
}

func TestPnLSummaryWinRatePresence(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantHasRate bool
		wantRate    float64
	}{
		{
			name:        "win rate present",
			body:        `{"realized_pnl_usd": 100, "traded_times": 5, "win_rate": 0.6, "top5_tokens": [{"token_symbol": "TOK", "chain": "ethereum", "realized_roi": 1.2, "realized_pnl": 80}]}`,
			wantHasRate: true,
			wantRate:    0.6,
		},
		{
			name:        "win rate absent",
			body:        `{"realized_pnl_usd": 100, "traded_times": 5}`,
			wantHasRate: false,
		},
		{
			name:        "explicit zero win rate",
			body:        `{"traded_times": 5, "win_rate": 0}`,
			wantHasRate: true,
			wantRate:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := NewClient("k", server.URL, testLogger())
			summary, err := client.PnLSummary(context.Background(), "0xwallet", time.Now().AddDate(-1, 0, 0), time.Now())
			if err != nil {
				t.Fatalf("PnLSummary: %v", err)
			}
			if summary.HasWinRate != tt.wantHasRate {
				t.Errorf("HasWinRate = %v, want %v", summary.HasWinRate, tt.wantHasRate)
			}
			if summary.WinRate != tt.wantRate {
				t.Errorf("WinRate = %v, want %v", summary.WinRate, tt.wantRate)
			}
		})
	}
}

func TestPostErrorIncludesStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": "rate limited"}`)
	}))
	defer server.Close()

	client := NewClient("k", server.URL, testLogger())
	_, err := client.Transactions(context.Background(), domain.TransactionQuery{Address: "0xwallet", Chain: "ethereum"})
	if err == nil {
		t.Fatal("expected error on 429")
	}
	if want := "429"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not mention status %s", err, want)
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error %q does not include the response body", err)
	}
}
