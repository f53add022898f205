package domain

import (
	"context"
	"time"
)

// TransactionQuery selects a wallet's transactions on one chain.
type TransactionQuery struct {
	Address      string
	Chain        string
	From         time.Time
	To           time.Time
	MinVolumeUSD float64
}

// BalanceQuery selects a wallet's current holdings. Chain may be "all".
type BalanceQuery struct {
	Address          string
	Chain            string
	MinValueUSD      float64
	PerPage          int
	AllPages         bool
	OrderByValueDesc bool
}

// TransactionSource fetches wallet transaction history.
type TransactionSource interface {
	Transactions(ctx context.Context, q TransactionQuery) ([]Transaction, error)
}

// BalanceSource fetches a wallet's current token balances.
type BalanceSource interface {
	Balances(ctx context.Context, q BalanceQuery) ([]TokenBalance, error)
}

// PnLSource fetches the upstream wallet P&L summary.
type PnLSource interface {
	PnLSummary(ctx context.Context, address string, from, to time.Time) (*PnLSummary, error)
}

// PriceSource fetches USD prices from the price provider.
type PriceSource interface {
	// CurrentPrice returns the current USD price for a coin ID, or 0 when the
	// provider has no quote.
	CurrentPrice(ctx context.Context, coinID string) (float64, error)

	// HistoricalPrice returns the USD price for a coin ID on a calendar day,
	// or 0 when the provider has no data for that day.
	HistoricalPrice(ctx context.Context, coinID string, day time.Time) (float64, error)

	// ATHPrice returns the maximum price of a token over the past days,
	// derived from the provider's price series. A zero-price point means the
	// series was empty.
	ATHPrice(ctx context.Context, chain, tokenAddress string, days int) (ATHPoint, error)
}
