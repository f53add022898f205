package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/walletfacts/funfacts/internal/cache"
	"github.com/walletfacts/funfacts/internal/core/domain"
)

const (
	// ethCoinID is the price provider's identifier for ether.
	ethCoinID = "ethereum"
	// benchmarkLookbackMonths is the buy-history window. Twelve months with
	// a top-50 sample covers ~98% of volume on typical wallets.
	benchmarkLookbackMonths = 12
	// benchmarkSampleSize caps how many buys are priced.
	benchmarkSampleSize = 50
	// benchmarkMinVolumeUSD drops dust transactions at the source.
	benchmarkMinVolumeUSD = 10.0
)

// zeroAddress also shows up as a native placeholder in transfer rows.
const zeroAddress = "0x0000000000000000000000000000000000000000"

// EthBenchmark computes the counterfactual "bought ETH instead" performance
// of a wallet's buy transactions.
type EthBenchmark struct {
	txs        domain.TransactionSource
	balances   domain.BalanceSource
	prices     domain.PriceSource
	priceCache *cache.PriceCache
	log        *logrus.Entry
}

// NewEthBenchmark wires the valuator to its data sources and price cache.
func NewEthBenchmark(txs domain.TransactionSource, balances domain.BalanceSource, prices domain.PriceSource, priceCache *cache.PriceCache, log *logrus.Logger) *EthBenchmark {
	return &EthBenchmark{
		txs:        txs,
		balances:   balances,
		prices:     prices,
		priceCache: priceCache,
		log:        log.WithField("feature", "eth_benchmark"),
	}
}

// Analyze samples the wallet's largest buys, converts each into the amount
// of ETH the same spend would have bought on its day, and compares the
// current value of the purchased tokens against that ETH position. Every
// failure collapses into the same fallback.
func (b *EthBenchmark) Analyze(ctx context.Context, address string) domain.EthBenchmarkFact {
	fallback := domain.EthBenchmarkFact{Fallback: domain.FallbackEthBenchmark}

	now := time.Now().UTC()
	txs := fetchAllChains(ctx, b.txs, b.log, domain.TransactionQuery{
		Address:      address,
		From:         now.AddDate(0, -benchmarkLookbackMonths, 0),
		To:           now,
		MinVolumeUSD: benchmarkMinVolumeUSD,
	})
	if len(txs) == 0 {
		return fallback
	}

	var buys []domain.Transaction
	for _, tx := range txs {
		if tx.IsBuy() {
			buys = append(buys, tx)
		}
	}
	if len(buys) == 0 {
		return fallback
	}

	sample := sampleTopByVolume(buys, benchmarkSampleSize)
	b.log.WithFields(logrus.Fields{
		"buys":   len(buys),
		"sample": len(sample),
	}).Debug("sampling buy transactions")

	var totalUsdSpent, totalEthEquivalent float64
	pricesFound := 0
	for _, tx := range sample {
		totalUsdSpent += tx.VolumeUSD

		price, err := b.priceCache.Price(ctx, ethCoinID, tx.Timestamp, b.prices.HistoricalPrice)
		if err != nil || price <= 0 {
			// Unpriced days stay in the spend total but add nothing to the
			// counterfactual.
			continue
		}
		totalEthEquivalent += tx.VolumeUSD / price
		pricesFound++
	}
	b.log.WithFields(logrus.Fields{
		"prices_found": pricesFound,
		"sample":       len(sample),
	}).Debug("resolved historical prices")

	// Without a single price point the benchmark is meaningless.
	if totalEthEquivalent == 0 {
		return fallback
	}

	currentEthPrice, err := b.prices.CurrentPrice(ctx, ethCoinID)
	if err != nil || currentEthPrice == 0 {
		return fallback
	}

	ethEquivalentValue := totalEthEquivalent * currentEthPrice

	// The wallet side of the comparison is what the purchased tokens are
	// worth now, not what was spent on them.
	portfolioValue, err := b.currentPortfolioValue(ctx, address, purchasedTokenSet(buys))
	if err != nil {
		b.log.WithError(err).Warn("portfolio valuation failed")
		return fallback
	}

	performancePercent := (portfolioValue - ethEquivalentValue) / ethEquivalentValue * 100

	status := domain.Underperformed
	if performancePercent >= 0 {
		status = domain.Outperformed
	}

	return domain.EthBenchmarkFact{
		Success:            true,
		PortfolioValue:     portfolioValue,
		EthEquivalentValue: ethEquivalentValue,
		PerformancePercent: performancePercent,
		Status:             status,
		SampleSize:         len(sample),
		TotalTransactions:  len(buys),
	}
}

// currentPortfolioValue sums the wallet's current balances restricted to the
// tokens it actually bought in-window.
func (b *EthBenchmark) currentPortfolioValue(ctx context.Context, address string, purchased map[string]struct{}) (float64, error) {
	balances, err := b.balances.Balances(ctx, domain.BalanceQuery{
		Address: address,
		Chain:   "all",
		PerPage: 100,
	})
	if err != nil {
		return 0, err
	}

	var total float64
	for _, balance := range balances {
		if _, ok := purchased[strings.ToLower(balance.TokenAddress)]; ok {
			total += balance.ValueUSD
		}
	}
	return total, nil
}

// sampleTopByVolume returns the k highest-volume transactions without
// mutating the input order.
func sampleTopByVolume(txs []domain.Transaction, k int) []domain.Transaction {
	sorted := make([]domain.Transaction, len(txs))
	copy(sorted, txs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].VolumeUSD > sorted[j].VolumeUSD
	})
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}

// purchasedTokenSet collects the lowercase addresses of every non-native
// token received across the buy transactions.
func purchasedTokenSet(buys []domain.Transaction) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tx := range buys {
		for _, flow := range tx.TokensReceived {
			addr := strings.ToLower(flow.TokenAddress)
			if addr == "" || addr == zeroAddress || isNativeToken(addr) {
				continue
			}
			set[addr] = struct{}{}
		}
	}
	return set
}
