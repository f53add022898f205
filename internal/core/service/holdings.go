package service

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/walletfacts/funfacts/internal/core/domain"
)

// minHoldingsFactValueUSD is the materiality floor for the holdings facts.
const minHoldingsFactValueUSD = 10.0

// HoldingsAnalyzer derives the balance-snapshot facts: biggest bag, token
// diversity, and multi-chain activity.
type HoldingsAnalyzer struct {
	balances domain.BalanceSource
	log      *logrus.Entry
}

// NewHoldingsAnalyzer wires the analyzer to the balance source.
func NewHoldingsAnalyzer(balances domain.BalanceSource, log *logrus.Logger) *HoldingsAnalyzer {
	return &HoldingsAnalyzer{
		balances: balances,
		log:      log.WithField("feature", "holdings"),
	}
}

// BiggestBag reports the wallet's single largest holding and its share of
// the portfolio.
func (a *HoldingsAnalyzer) BiggestBag(ctx context.Context, address string) domain.BiggestBagFact {
	fallback := domain.BiggestBagFact{Fallback: domain.FallbackHoldings}

	holdings, err := a.balances.Balances(ctx, domain.BalanceQuery{
		Address:          address,
		Chain:            "all",
		MinValueUSD:      minHoldingsFactValueUSD,
		PerPage:          50,
		OrderByValueDesc: true,
	})
	if err != nil {
		a.log.WithError(err).Warn("holdings fetch failed")
		return fallback
	}
	if len(holdings) == 0 {
		return fallback
	}

	var totalValue float64
	for _, h := range holdings {
		totalValue += h.ValueUSD
	}
	if totalValue < minHoldingsFactValueUSD {
		return fallback
	}

	biggest := holdings[0]
	for _, h := range holdings[1:] {
		if h.ValueUSD > biggest.ValueUSD {
			biggest = h
		}
	}

	return domain.BiggestBagFact{
		Success:            true,
		TokenSymbol:        biggest.Symbol,
		TokenName:          biggest.Name,
		ValueUSD:           biggest.ValueUSD,
		Chain:              biggest.Chain,
		PercentOfPortfolio: biggest.ValueUSD / totalValue * 100,
	}
}

// TokenDiversity scores how spread out the portfolio is from the unique
// token count and the top-3 concentration.
func (a *HoldingsAnalyzer) TokenDiversity(ctx context.Context, address string) domain.TokenDiversityFact {
	fallback := domain.TokenDiversityFact{Fallback: domain.FallbackHoldings}

	holdings, err := a.balances.Balances(ctx, domain.BalanceQuery{
		Address:          address,
		Chain:            "all",
		MinValueUSD:      minHoldingsFactValueUSD,
		PerPage:          100,
		AllPages:         true,
		OrderByValueDesc: true,
	})
	if err != nil {
		a.log.WithError(err).Warn("holdings fetch failed")
		return fallback
	}
	if len(holdings) == 0 {
		return fallback
	}

	var totalValue float64
	for _, h := range holdings {
		totalValue += h.ValueUSD
	}
	if totalValue < minHoldingsFactValueUSD {
		return fallback
	}

	sorted := make([]domain.TokenBalance, len(holdings))
	copy(sorted, holdings)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ValueUSD > sorted[j].ValueUSD
	})

	var top3Value float64
	for i := 0; i < len(sorted) && i < 3; i++ {
		top3Value += sorted[i].ValueUSD
	}
	concentration := top3Value / totalValue * 100

	score := domain.DiversityLow
	switch {
	case len(holdings) >= 15 && concentration < 50:
		score = domain.DiversityHigh
	case len(holdings) >= 5 && concentration < 75:
		score = domain.DiversityMedium
	}

	return domain.TokenDiversityFact{
		Success:           true,
		UniqueTokens:      len(holdings),
		TotalValueUSD:     totalValue,
		Top3Concentration: concentration,
		DiversityScore:    score,
	}
}

// MultiChain reports how the portfolio spreads across networks.
func (a *HoldingsAnalyzer) MultiChain(ctx context.Context, address string) domain.MultiChainFact {
	fallback := domain.MultiChainFact{Fallback: domain.FallbackMultiChain}

	holdings, err := a.balances.Balances(ctx, domain.BalanceQuery{
		Address:     address,
		Chain:       "all",
		MinValueUSD: minHoldingsFactValueUSD,
		PerPage:     100,
		AllPages:    true,
	})
	if err != nil {
		a.log.WithError(err).Warn("holdings fetch failed")
		return fallback
	}
	if len(holdings) == 0 {
		return fallback
	}

	chainValue := make(map[string]float64)
	for _, h := range holdings {
		chainValue[h.Chain] += h.ValueUSD
	}

	if len(chainValue) == 1 {
		return domain.MultiChainFact{Fallback: domain.FallbackSingleChain}
	}

	chains := make([]string, 0, len(chainValue))
	var totalValue float64
	for chain, value := range chainValue {
		chains = append(chains, chain)
		totalValue += value
	}
	sort.Slice(chains, func(i, j int) bool {
		return chainValue[chains[i]] > chainValue[chains[j]]
	})

	primary := chains[0]
	return domain.MultiChainFact{
		Success:             true,
		ChainCount:          len(chains),
		Chains:              chains,
		PrimaryChain:        primary,
		PrimaryChainPercent: chainValue[primary] / totalValue * 100,
	}
}
