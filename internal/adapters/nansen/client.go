package nansen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/walletfacts/funfacts/internal/core/domain"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://api.nansen.ai"

const (
	// maxPages caps balance pagination to keep a single analysis bounded.
	maxPages = 10
	// defaultPerPage is the maximum rows per API call.
	defaultPerPage = 100
)

// Client communicates with the wallet profiler API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *logrus.Entry
}

// NewClient creates a profiler API client. baseURL falls back to
// DefaultBaseURL when empty.
func NewClient(apiKey, baseURL string, log *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.WithField("adapter", "nansen"),
	}
}

// Transactions fetches a wallet's transactions on one chain within a date
// range, optionally filtered by minimum USD volume.
func (c *Client) Transactions(ctx context.Context, q domain.TransactionQuery) ([]domain.Transaction, error) {
	req := transactionsRequest{
		Address:       q.Address,
		Chain:         q.Chain,
		HideSpamToken: true,
		Pagination:    pagination{Page: 1, PerPage: defaultPerPage},
		OrderBy:       []orderBy{{Field: "block_timestamp", Direction: "DESC"}},
	}
	if !q.From.IsZero() || !q.To.IsZero() {
		req.Date = &dateRange{
			From: q.From.UTC().Format(time.RFC3339),
			To:   q.To.UTC().Format(time.RFC3339),
		}
	}
	if q.MinVolumeUSD > 0 {
		req.Filters = &struct {
			VolumeUSD *volumeFilter `json:"volume_usd,omitempty"`
		}{VolumeUSD: &volumeFilter{Min: q.MinVolumeUSD}}
	}

	var resp transactionsResponse
	if err := c.post(ctx, "/api/v1/profiler/address/transactions", req, &resp); err != nil {
		return nil, err
	}

	txs := make([]domain.Transaction, 0, len(resp.Data))
	for _, row := range resp.Data {
		txs = append(txs, row.toDomain())
	}
	return txs, nil
}

// Balances fetches a wallet's current holdings. With AllPages set it follows
// pagination until the last page or the page cap.
func (c *Client) Balances(ctx context.Context, q domain.BalanceQuery) ([]domain.TokenBalance, error) {
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	req := balanceRequest{
		Address:       q.Address,
		Chain:         q.Chain,
		HideSpamToken: true,
		Pagination:    pagination{Page: 1, PerPage: perPage},
	}
	if q.OrderByValueDesc {
		req.OrderBy = []orderBy{{Field: "value_usd", Direction: "DESC"}}
	}
	if q.MinValueUSD > 0 {
		req.Filters = &struct {
			ValueUSD *valueFilter `json:"value_usd,omitempty"`
		}{ValueUSD: &valueFilter{Min: q.MinValueUSD}}
	}

	var balances []domain.TokenBalance
	for page := 1; page <= maxPages; page++ {
		req.Pagination.Page = page

		var resp balanceResponse
		if err := c.post(ctx, "/api/v1/profiler/address/current-balance", req, &resp); err != nil {
			return nil, err
		}

		for _, row := range resp.Data {
			balances = append(balances, domain.TokenBalance{
				TokenAddress: row.TokenAddress,
				Chain:        row.Chain,
				Name:         row.TokenName,
				Symbol:       row.TokenSymbol,
				Balance:      row.Balance,
				ValueUSD:     row.ValueUSD,
				PriceUSD:     row.PriceUSD,
			})
		}

		if !q.AllPages || resp.Pagination.IsLastPage || len(resp.Data) == 0 {
			break
		}
	}
	return balances, nil
}

// PnLSummary fetches the wallet-level P&L summary across all chains.
func (c *Client) PnLSummary(ctx context.Context, address string, from, to time.Time) (*domain.PnLSummary, error) {
	req := pnlSummaryRequest{
		Address: address,
		Chain:   "all",
		Date: dateRange{
			From: from.UTC().Format(time.RFC3339),
			To:   to.UTC().Format(time.RFC3339),
		},
	}

	var resp pnlSummaryResponse
	if err := c.post(ctx, "/api/v1/profiler/address/pnl-summary", req, &resp); err != nil {
		return nil, err
	}

	summary := &domain.PnLSummary{
		RealizedPnLUSD:     resp.RealizedPnLUSD,
		RealizedPnLPercent: resp.RealizedPnLPercent,
		TradedTokenCount:   resp.TradedTokenCount,
		TradedTimes:        resp.TradedTimes,
	}
	if resp.WinRate != nil {
		summary.WinRate = *resp.WinRate
		summary.HasWinRate = true
	}
	for _, row := range resp.Top5Tokens {
		summary.TopTokens = append(summary.TopTokens, domain.TokenPnL{
			TokenAddress: row.TokenAddress,
			Symbol:       row.TokenSymbol,
			Chain:        row.Chain,
			RealizedPnL:  row.RealizedPnL,
			RealizedROI:  row.RealizedROI,
		})
	}
	return summary, nil
}

// post issues a JSON POST and decodes the response body into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("apiKey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.log.WithFields(logrus.Fields{
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("profiler API error")
		return fmt.Errorf("profiler API %s returned status %d: %s", path, resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (row transactionRow) toDomain() domain.Transaction {
	ts, err := time.Parse(time.RFC3339, row.BlockTimestamp)
	if err != nil {
		// Some rows come back without a zone suffix.
		ts, _ = time.Parse("2006-01-02T15:04:05", row.BlockTimestamp)
	}

	tx := domain.Transaction{
		Timestamp: ts,
		Hash:      row.TransactionHash,
		Chain:     row.Chain,
		VolumeUSD: row.VolumeUSD,
	}
	for _, t := range row.TokensSent {
		tx.TokensSent = append(tx.TokensSent, t.toDomain())
	}
	for _, t := range row.TokensReceived {
		tx.TokensReceived = append(tx.TokensReceived, t.toDomain())
	}
	return tx
}

func (row tokenTransferRow) toDomain() domain.TokenTransfer {
	return domain.TokenTransfer{
		TokenAddress: row.TokenAddress,
		Chain:        row.Chain,
		Symbol:       row.TokenSymbol,
		Amount:       row.TokenAmount,
		ValueUSD:     row.ValueUSD,
	}
}
