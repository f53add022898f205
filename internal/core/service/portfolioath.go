package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/walletfacts/funfacts/internal/cache"
	"github.com/walletfacts/funfacts/internal/core/domain"
)

const (
	// athLookbackDays bounds how far back the peak is searched.
	athLookbackDays = 365
	// topHoldingsCount caps the analysis to the largest positions.
	topHoldingsCount = 20
	// minHoldingValueUSD drops dust holdings.
	minHoldingValueUSD = 50.0
	// athBatchSize and athBatchDelay throttle the series fetches to stay
	// under the provider's rate limit. This is pacing, not correctness.
	athBatchSize = 5
)

// PortfolioATH values the wallet's top holdings as if each were liquidated
// at its own historical peak.
type PortfolioATH struct {
	balances   domain.BalanceSource
	prices     domain.PriceSource
	store      cache.ATHStore
	batchDelay time.Duration
	log        *logrus.Entry
}

// NewPortfolioATH wires the valuator to its sources and ATH store.
func NewPortfolioATH(balances domain.BalanceSource, prices domain.PriceSource, store cache.ATHStore, log *logrus.Logger) *PortfolioATH {
	return &PortfolioATH{
		balances:   balances,
		prices:     prices,
		store:      store,
		batchDelay: time.Second,
		log:        log.WithField("feature", "portfolio_ath"),
	}
}

// Analyze fetches the top holdings, resolves each token's all-time high
// within the lookback window, and reports the counterfactual portfolio
// value. Holdings whose ATH cannot be resolved contribute their current
// value instead of being dropped.
func (p *PortfolioATH) Analyze(ctx context.Context, address string) domain.PortfolioATHFact {
	fallback := domain.PortfolioATHFact{Fallback: domain.FallbackPortfolioATH}

	holdings, err := p.balances.Balances(ctx, domain.BalanceQuery{
		Address:          address,
		Chain:            "all",
		PerPage:          topHoldingsCount,
		OrderByValueDesc: true,
	})
	if err != nil {
		p.log.WithError(err).Warn("holdings fetch failed")
		return fallback
	}

	var filtered []domain.TokenBalance
	for _, h := range holdings {
		if isNativeToken(h.TokenAddress) {
			continue
		}
		if !isSupportedChain(h.Chain) {
			continue
		}
		if h.ValueUSD < minHoldingValueUSD {
			continue
		}
		filtered = append(filtered, h)
	}
	if len(filtered) == 0 {
		return fallback
	}

	var currentValue float64
	for _, h := range filtered {
		currentValue += h.ValueUSD
	}

	athPrices := p.resolveATHPrices(ctx, filtered)

	var athValue float64
	successfulTokens := 0
	for _, h := range filtered {
		contribution, ok := athContribution(h, athPrices[strings.ToLower(h.TokenAddress)])
		athValue += contribution
		if ok {
			successfulTokens++
		}
	}

	// Only when literally nothing resolved is the figure untrustworthy.
	if successfulTokens == 0 {
		return fallback
	}

	p.log.WithFields(logrus.Fields{
		"holdings":   len(filtered),
		"successful": successfulTokens,
	}).Debug("resolved ATH prices")

	return domain.PortfolioATHFact{
		Success:              true,
		CurrentValue:         currentValue,
		ATHValue:             athValue,
		PotentialGainPercent: (athValue - currentValue) / currentValue * 100,
		SampleSize:           len(filtered),
		SuccessfulTokens:     successfulTokens,
	}
}

// resolveATHPrices consults the ATH store and fetches misses in fixed-size
// concurrent batches with a delay in between, to respect upstream rate
// limits. Individual fetch failures leave the token unresolved.
func (p *PortfolioATH) resolveATHPrices(ctx context.Context, holdings []domain.TokenBalance) map[string]domain.ATHPoint {
	resolved := make(map[string]domain.ATHPoint, len(holdings))

	var misses []domain.TokenBalance
	for _, h := range holdings {
		key := strings.ToLower(h.TokenAddress)
		if point, ok := p.store.Get(ctx, key); ok {
			resolved[key] = point
			continue
		}
		misses = append(misses, h)
	}

	for start := 0; start < len(misses); start += athBatchSize {
		end := start + athBatchSize
		if end > len(misses) {
			end = len(misses)
		}
		batch := misses[start:end]

		points := make([]domain.ATHPoint, len(batch))
		fetched := make([]bool, len(batch))

		var g errgroup.Group
		for i, h := range batch {
			i, h := i, h
			g.Go(func() error {
				point, err := p.prices.ATHPrice(ctx, h.Chain, h.TokenAddress, athLookbackDays)
				if err != nil {
					p.log.WithField("token", h.Symbol).WithError(err).Debug("ATH fetch failed")
					return nil
				}
				points[i] = point
				fetched[i] = true
				return nil
			})
		}
		g.Wait()

		for i, h := range batch {
			if !fetched[i] {
				continue
			}
			key := strings.ToLower(h.TokenAddress)
			resolved[key] = points[i]
			p.store.Set(ctx, key, points[i])
		}

		if end < len(misses) {
			time.Sleep(p.batchDelay)
		}
	}

	return resolved
}

// athContribution computes one holding's share of the ATH portfolio value.
// The second return value reports whether a real ATH computation succeeded;
// when it did not, the holding's current value is used so the sum never
// drops a position.
func athContribution(holding domain.TokenBalance, ath domain.ATHPoint) (float64, bool) {
	if ath.Price <= 0 {
		return holding.ValueUSD, false
	}

	var amount float64
	if holding.Balance != "" {
		parsed, err := strconv.ParseFloat(holding.Balance, 64)
		if err != nil {
			return holding.ValueUSD, false
		}
		amount = parsed
	} else if holding.PriceUSD > 0 {
		amount = holding.ValueUSD / holding.PriceUSD
	} else {
		return holding.ValueUSD, false
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return holding.ValueUSD, false
	}

	value := amount * ath.Price
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return holding.ValueUSD, false
	}
	return value, true
}
