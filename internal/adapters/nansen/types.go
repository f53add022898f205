package nansen

// Wire types for the profiler API. Request bodies mirror the upstream JSON
// contract; response rows are converted to domain types by the client.

type dateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page,omitempty"`
}

type orderBy struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

type volumeFilter struct {
	Min float64 `json:"min,omitempty"`
}

type valueFilter struct {
	Min float64 `json:"min,omitempty"`
}

type transactionsRequest struct {
	Address       string     `json:"address"`
	Chain         string     `json:"chain"`
	Date          *dateRange `json:"date,omitempty"`
	HideSpamToken bool       `json:"hide_spam_token"`
	Filters       *struct {
		VolumeUSD *volumeFilter `json:"volume_usd,omitempty"`
	} `json:"filters,omitempty"`
	Pagination pagination `json:"pagination"`
	OrderBy    []orderBy  `json:"order_by,omitempty"`
}

type balanceRequest struct {
	Address       string `json:"address"`
	Chain         string `json:"chain"`
	HideSpamToken bool   `json:"hide_spam_token"`
	Filters       *struct {
		ValueUSD *valueFilter `json:"value_usd,omitempty"`
	} `json:"filters,omitempty"`
	Pagination pagination `json:"pagination"`
	OrderBy    []orderBy  `json:"order_by,omitempty"`
}

type pnlSummaryRequest struct {
	Address string    `json:"address"`
	Chain   string    `json:"chain"`
	Date    dateRange `json:"date"`
}

type responsePagination struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	IsLastPage bool `json:"is_last_page"`
}

type tokenTransferRow struct {
	TokenSymbol  string  `json:"token_symbol"`
	TokenAmount  float64 `json:"token_amount"`
	PriceUSD     float64 `json:"price_usd"`
	ValueUSD     float64 `json:"value_usd"`
	TokenAddress string  `json:"token_address"`
	Chain        string  `json:"chain"`
	FromAddress  string  `json:"from_address"`
	ToAddress    string  `json:"to_address"`
}

type transactionRow struct {
	BlockTimestamp  string             `json:"block_timestamp"`
	TransactionHash string             `json:"transaction_hash"`
	Chain           string             `json:"chain"`
	Method          string             `json:"method"`
	TokensSent      []tokenTransferRow `json:"tokens_sent"`
	TokensReceived  []tokenTransferRow `json:"tokens_received"`
	VolumeUSD       float64            `json:"volume_usd"`
	SourceType      string             `json:"source_type"`
}

type transactionsResponse struct {
	Data       []transactionRow   `json:"data"`
	Pagination responsePagination `json:"pagination"`
}

type balanceRow struct {
	TokenAddress string  `json:"token_address"`
	TokenName    string  `json:"token_name"`
	TokenSymbol  string  `json:"token_symbol"`
	Chain        string  `json:"chain"`
	Balance      string  `json:"balance"`
	BalanceUSD   float64 `json:"balance_usd"`
	ValueUSD     float64 `json:"value_usd"`
	PriceUSD     float64 `json:"price_usd"`
}

type balanceResponse struct {
	Data       []balanceRow       `json:"data"`
	Pagination responsePagination `json:"pagination"`
}

type topTokenRow struct {
	RealizedPnL  float64 `json:"realized_pnl"`
	RealizedROI  float64 `json:"realized_roi"`
	TokenAddress string  `json:"token_address"`
	TokenSymbol  string  `json:"token_symbol"`
	Chain        string  `json:"chain"`
}

type pnlSummaryResponse struct {
	RealizedPnLUSD     float64       `json:"realized_pnl_usd"`
	RealizedPnLPercent float64       `json:"realized_pnl_percent"`
	TradedTokenCount   int           `json:"traded_token_count"`
	TradedTimes        int           `json:"traded_times"`
	WinRate            *float64      `json:"win_rate"`
	Top5Tokens         []topTokenRow `json:"top5_tokens"`
}
