package domain

import "time"

// Fallback messages shown when an analysis cannot produce data. These are
// product copy; failure to compute a fun fact is never surfaced as an error.
const (
	FallbackRugged       = "No rugged projects detected—clear skies ahead"
	FallbackEthBenchmark = "No meaningful history yet for young wallets, CEX-only flows excluded"
	FallbackPortfolioATH = "No meaningful history yet for young/empty wallets"
	FallbackPnL          = "Only mist—too little history to read."
	FallbackWinRate      = "Not enough trading history to calculate win rate"
	FallbackHoldings     = "No significant holdings found"
	FallbackMultiChain   = "No multi-chain activity detected"
	FallbackSingleChain  = "Single chain wallet - consider exploring other networks!"
)

// Confidence classifies how certain the rug heuristic is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// RuggedToken is one flagged holding. LossAmount is currentValue minus
// totalInvested, so a loss is negative.
type RuggedToken struct {
	Name           string     `json:"name"`
	Symbol         string     `json:"symbol"`
	Chain          string     `json:"chain"`
	AmountInvested float64    `json:"amount_invested"`
	CurrentValue   float64    `json:"current_value"`
	LossPercent    float64    `json:"loss_percent"`
	LossAmount     float64    `json:"loss_amount"`
	PurchaseDate   time.Time  `json:"purchase_date"`
	Confidence     Confidence `json:"confidence"`
}

// RuggedProjectsFact reports likely-worthless investments, ordered by loss
// amount ascending (worst dollar loss first).
type RuggedProjectsFact struct {
	Success      bool          `json:"success"`
	RuggedCount  int           `json:"rugged_count"`
	RuggedTokens []RuggedToken `json:"rugged_tokens"`
	TotalLoss    float64       `json:"total_loss"`
	Fallback     string        `json:"fallback,omitempty"`
}

// BenchmarkStatus compares the wallet against the ETH counterfactual.
type BenchmarkStatus string

const (
	Outperformed   BenchmarkStatus = "OUTPERFORMED"
	Underperformed BenchmarkStatus = "UNDERPERFORMED"
)

// EthBenchmarkFact reports performance versus a "bought ETH instead"
// strategy over the sampled buy transactions.
type EthBenchmarkFact struct {
	Success            bool            `json:"success"`
	PortfolioValue     float64         `json:"portfolio_value"`
	EthEquivalentValue float64         `json:"eth_equivalent_value"`
	PerformancePercent float64         `json:"performance_percent"`
	Status             BenchmarkStatus `json:"status,omitempty"`
	SampleSize         int             `json:"sample_size"`
	TotalTransactions  int             `json:"total_transactions"`
	Fallback           string          `json:"fallback,omitempty"`
}

// PortfolioATHFact reports the counterfactual value of the wallet's top
// holdings at their historical peaks.
type PortfolioATHFact struct {
	Success              bool    `json:"success"`
	CurrentValue         float64 `json:"current_value"`
	ATHValue             float64 `json:"ath_value"`
	PotentialGainPercent float64 `json:"potential_gain_percent"`
	SampleSize           int     `json:"sample_size"`
	SuccessfulTokens     int     `json:"successful_tokens"`
	Fallback             string  `json:"fallback,omitempty"`
}

// PnLStatus is the direction of the realized P&L.
type PnLStatus string

const (
	StatusGain PnLStatus = "GAIN"
	StatusLoss PnLStatus = "LOSS"
)

// PnLFact reports the wallet's realized profit and loss over the lookback.
type PnLFact struct {
	Success            bool      `json:"success"`
	RealizedPnLPercent float64   `json:"realized_pnl_percent"`
	RealizedPnLUSD     float64   `json:"realized_pnl_usd"`
	Status             PnLStatus `json:"status,omitempty"`
	Timeframe          string    `json:"timeframe,omitempty"`
	Fallback           string    `json:"fallback,omitempty"`
}

// BestToken is the wallet's best performer by realized ROI.
type BestToken struct {
	Symbol string  `json:"symbol"`
	Chain  string  `json:"chain"`
	ROI    float64 `json:"roi"`
	PnL    float64 `json:"pnl"`
}

// WinRateFact reports the wallet's trading win rate.
type WinRateFact struct {
	Success      bool       `json:"success"`
	WinRate      float64    `json:"win_rate"`
	TradedTokens int        `json:"traded_tokens"`
	TradedTimes  int        `json:"traded_times"`
	BestToken    *BestToken `json:"best_token,omitempty"`
	Fallback     string     `json:"fallback,omitempty"`
}

// BiggestBagFact reports the wallet's largest holding.
type BiggestBagFact struct {
	Success            bool    `json:"success"`
	TokenSymbol        string  `json:"token_symbol"`
	TokenName          string  `json:"token_name"`
	ValueUSD           float64 `json:"value_usd"`
	Chain              string  `json:"chain"`
	PercentOfPortfolio float64 `json:"percent_of_portfolio"`
	Fallback           string  `json:"fallback,omitempty"`
}

// DiversityScore classifies how spread out the portfolio is.
type DiversityScore string

const (
	DiversityHigh   DiversityScore = "HIGH"
	DiversityMedium DiversityScore = "MEDIUM"
	DiversityLow    DiversityScore = "LOW"
)

// TokenDiversityFact reports portfolio concentration.
type TokenDiversityFact struct {
	Success           bool           `json:"success"`
	UniqueTokens      int            `json:"unique_tokens"`
	TotalValueUSD     float64        `json:"total_value_usd"`
	Top3Concentration float64        `json:"top3_concentration"`
	DiversityScore    DiversityScore `json:"diversity_score,omitempty"`
	Fallback          string         `json:"fallback,omitempty"`
}

// MultiChainFact reports cross-chain activity.
type MultiChainFact struct {
	Success             bool     `json:"success"`
	ChainCount          int      `json:"chain_count"`
	Chains              []string `json:"chains"`
	PrimaryChain        string   `json:"primary_chain"`
	PrimaryChainPercent float64  `json:"primary_chain_percent"`
	Fallback            string   `json:"fallback,omitempty"`
}
