package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/walletfacts/funfacts/internal/core/domain"
)

// DefaultBaseURL is the public API host.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// platformIDs maps chain names to the provider's platform identifiers.
var platformIDs = map[string]string{
	"ethereum":  "ethereum",
	"polygon":   "polygon-pos",
	"bnb":       "binance-smart-chain",
	"bsc":       "binance-smart-chain",
	"arbitrum":  "arbitrum-one",
	"avalanche": "avalanche",
	"optimism":  "optimistic-ethereum",
	"base":      "base",
}

// Client communicates with the price data API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *logrus.Entry
}

// NewClient creates a price API client. The API key is optional; the public
// tier works without one at lower rate limits.
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
		log: log.WithField("adapter", "coingecko"),
	}
}

type historyResponse struct {
	MarketData *struct {
		CurrentPrice struct {
			USD float64 `json:"usd"`
		} `json:"current_price"`
	} `json:"market_data"`
}

type marketChartResponse struct {
	Prices [][2]float64 `json:"prices"` // [unix ms, price]
}

// CurrentPrice returns the current USD price for a coin ID, or 0 when the
// provider has no quote for it.
func (c *Client) CurrentPrice(ctx context.Context, coinID string) (float64, error) {
	params := url.Values{}
	params.Set("ids", coinID)
	params.Set("vs_currencies", "usd")

	var result map[string]struct {
		USD float64 `json:"usd"`
	}
	if err := c.get(ctx, "/simple/price", params, &result); err != nil {
		return 0, err
	}
	return result[coinID].USD, nil
}

// HistoricalPrice returns the USD price for a coin ID on a calendar day, or
// 0 when the provider has no data for that day.
func (c *Client) HistoricalPrice(ctx context.Context, coinID string, day time.Time) (float64, error) {
	params := url.Values{}
	// The history endpoint wants dd-mm-yyyy.
	params.Set("date", day.UTC().Format("02-01-2006"))
	params.Set("localization", "false")

	var result historyResponse
	if err := c.get(ctx, "/coins/"+coinID+"/history", params, &result); err != nil {
		return 0, err
	}
	if result.MarketData == nil {
		return 0, nil
	}
	return result.MarketData.CurrentPrice.USD, nil
}

// ATHPrice derives the maximum price of a token over the past days from the
// provider's market chart. A zero-price point means the series was empty.
func (c *Client) ATHPrice(ctx context.Context, chain, tokenAddress string, days int) (domain.ATHPoint, error) {
	platform, ok := platformIDs[strings.ToLower(chain)]
	if !ok {
		platform = strings.ToLower(chain)
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", strconv.Itoa(days))

	path := fmt.Sprintf("/coins/%s/contract/%s/market_chart", platform, strings.ToLower(tokenAddress))

	var chart marketChartResponse
	if err := c.get(ctx, path, params, &chart); err != nil {
		return domain.ATHPoint{}, err
	}

	var point domain.ATHPoint
	for _, pair := range chart.Prices {
		ts, price := pair[0], pair[1]
		if price > point.Price {
			point.Price = price
			point.Date = time.UnixMilli(int64(ts)).UTC()
		}
	}
	return point, nil
}

// get issues a GET and decodes the response body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

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
		}).Warn("price API error")
		return fmt.Errorf("price API %s returned status %d: %s", path, resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
