package domain

import (
	"strings"
	"time"
)

// TokenTransfer is a single token movement inside a transaction.
type TokenTransfer struct {
	TokenAddress string  `json:"token_address"`
	Chain        string  `json:"chain"`
	Symbol       string  `json:"token_symbol"`
	Amount       float64 `json:"token_amount"`
	ValueUSD     float64 `json:"value_usd"`
}

// Transaction is a wallet-observed on-chain event as reported by the
// transactions endpoint. Immutable once fetched.
type Transaction struct {
	Timestamp      time.Time
	Hash           string
	Chain          string
	TokensSent     []TokenTransfer
	TokensReceived []TokenTransfer
	VolumeUSD      float64
}

// IsBuy reports whether the wallet received tokens with non-zero volume.
func (t Transaction) IsBuy() bool {
	return len(t.TokensReceived) > 0 && t.VolumeUSD > 0
}

// TokenBalance is a point-in-time holding snapshot. Balance is the raw
// decimal string from the upstream API and is not always present.
type TokenBalance struct {
	TokenAddress string  `json:"token_address"`
	Chain        string  `json:"chain"`
	Name         string  `json:"token_name"`
	Symbol       string  `json:"token_symbol"`
	Balance      string  `json:"balance"`
	ValueUSD     float64 `json:"value_usd"`
	PriceUSD     float64 `json:"price_usd"`
}

// PositionKey identifies one token on one chain, case-insensitively.
type PositionKey struct {
	Token string
	Chain string
}

// NewPositionKey normalizes the address and chain to lowercase.
func NewPositionKey(tokenAddress, chain string) PositionKey {
	return PositionKey{
		Token: strings.ToLower(tokenAddress),
		Chain: strings.ToLower(chain),
	}
}

// PositionAggregate accumulates buy/sell flows for one (token, chain) pair
// across the lookback window. NetPosition == TokensPurchased - TokensSold
// holds after every mutation.
type PositionAggregate struct {
	TotalInvested   float64
	TokensPurchased float64
	TokensSold      float64
	NetPosition     float64
	FirstPurchase   time.Time
	LastPurchase    time.Time
	TxCount         int
}

// ATHPoint is an all-time-high observation for a token within a lookback
// window. A zero Price means the series resolved nothing.
type ATHPoint struct {
	Price float64
	Date  time.Time
}

// TokenPnL is one entry of the upstream top-tokens list.
type TokenPnL struct {
	TokenAddress string
	Symbol       string
	Chain        string
	RealizedPnL  float64
	RealizedROI  float64
}

// PnLSummary is the wallet-level profit and loss summary returned upstream.
// HasWinRate distinguishes a true zero from an absent field.
type PnLSummary struct {
	RealizedPnLUSD     float64
	RealizedPnLPercent float64
	TradedTokenCount   int
	TradedTimes        int
	WinRate            float64
	HasWinRate         bool
	TopTokens          []TokenPnL
}
