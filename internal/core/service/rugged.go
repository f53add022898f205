package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/walletfacts/funfacts/internal/core/domain"
)

// Rug heuristic thresholds.
const (
	// minInvestmentUSD is the USD floor below which a position is immaterial.
	minInvestmentUSD = 100.0
	// lossThresholdPercent is the loss beyond which a position looks rugged.
	lossThresholdPercent = -90.0
	// minAgeDays is how long since the last purchase before a loss counts.
	minAgeDays = 30
	// deadPriceUSD marks a token as effectively dead.
	deadPriceUSD = 0.00001
	// minRemainingValueUSD filters sub-dust positions.
	minRemainingValueUSD = 10.0
	// minHoldFraction: selling more than half the position is an exit,
	// not a rug.
	minHoldFraction = 0.5
	// mostHoldFraction: still holding over 80% corroborates a rug.
	mostHoldFraction = 0.8
	// ruggedLookbackYears bounds the transaction history window.
	ruggedLookbackYears = 2
)

// rugSignals are the four independent indicators the confidence policy is
// built from.
type rugSignals struct {
	largeLoss bool // lost 90%+ of the investment
	oldEnough bool // last purchase more than 30 days ago
	deadPrice bool // unit price below the dead threshold
	holdsMost bool // still holds over 80% of the net position
}

// confidence applies the rule table: all four signals is HIGH; a large old
// loss with either corroborating signal is MEDIUM; anything else is LOW and
// never reported.
func (s rugSignals) confidence() domain.Confidence {
	switch {
	case s.largeLoss && s.oldEnough && s.deadPrice && s.holdsMost:
		return domain.ConfidenceHigh
	case s.largeLoss && s.oldEnough && (s.deadPrice || s.holdsMost):
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// RuggedDetector flags likely-worthless investments still sitting in the
// wallet.
type RuggedDetector struct {
	txs      domain.TransactionSource
	balances domain.BalanceSource
	log      *logrus.Entry
}

// NewRuggedDetector wires the detector to its data sources.
func NewRuggedDetector(txs domain.TransactionSource, balances domain.BalanceSource, log *logrus.Logger) *RuggedDetector {
	return &RuggedDetector{
		txs:      txs,
		balances: balances,
		log:      log.WithField("feature", "rugged_projects"),
	}
}

// Analyze reconciles the wallet's transaction history against its current
// holdings and reports rugged positions. Every failure path degrades to a
// successful empty result: not finding rugs and not being able to look are
// deliberately indistinguishable.
func (d *RuggedDetector) Analyze(ctx context.Context, address string) domain.RuggedProjectsFact {
	empty := domain.RuggedProjectsFact{
		Success:      true,
		RuggedTokens: []domain.RuggedToken{},
		Fallback:     domain.FallbackRugged,
	}

	// All holdings, no value filter: rugged tokens are near-worthless by
	// definition.
	holdings, err := d.balances.Balances(ctx, domain.BalanceQuery{
		Address:          address,
		Chain:            "all",
		PerPage:          100,
		OrderByValueDesc: true,
	})
	if err != nil {
		d.log.WithError(err).Warn("holdings fetch failed")
		return empty
	}
	if len(holdings) == 0 {
		return empty
	}

	now := time.Now().UTC()
	txs := fetchAllChains(ctx, d.txs, d.log, domain.TransactionQuery{
		Address: address,
		From:    now.AddDate(-ruggedLookbackYears, 0, 0),
		To:      now,
	})
	d.log.WithFields(logrus.Fields{
		"holdings":     len(holdings),
		"transactions": len(txs),
	}).Debug("reconciling positions")

	positions := BuildPositions(txs)

	var rugged []domain.RuggedToken
	for _, holding := range holdings {
		flag, ok := evaluateHolding(holding, positions, now)
		if !ok {
			continue
		}
		rugged = append(rugged, flag)
	}

	if len(rugged) == 0 {
		return empty
	}

	// Worst dollar loss first.
	sort.Slice(rugged, func(i, j int) bool {
		return rugged[i].LossAmount < rugged[j].LossAmount
	})

	var totalLoss float64
	for _, t := range rugged {
		totalLoss += t.LossAmount
	}

	return domain.RuggedProjectsFact{
		Success:      true,
		RuggedCount:  len(rugged),
		RuggedTokens: rugged,
		TotalLoss:    totalLoss,
	}
}

// evaluateHolding runs one holding through the filter pipeline and the
// confidence rule table. It returns false when the holding is not reported.
func evaluateHolding(holding domain.TokenBalance, positions map[domain.PositionKey]*domain.PositionAggregate, now time.Time) (domain.RuggedToken, bool) {
	if isNativeToken(holding.TokenAddress) {
		return domain.RuggedToken{}, false
	}

	position, ok := positions[domain.NewPositionKey(holding.TokenAddress, holding.Chain)]
	if !ok {
		// Never purchased in-window: airdrop or pre-window acquisition with
		// no tracked cost basis.
		return domain.RuggedToken{}, false
	}

	if position.TotalInvested < minInvestmentUSD {
		return domain.RuggedToken{}, false
	}

	// Fully exited positions were realized, the user is not stuck in them.
	if position.NetPosition <= 0 {
		return domain.RuggedToken{}, false
	}

	holdPercentage := currentTokenAmount(holding) / position.NetPosition
	if holdPercentage <= minHoldFraction {
		return domain.RuggedToken{}, false
	}

	if holding.ValueUSD < minRemainingValueUSD {
		return domain.RuggedToken{}, false
	}

	lossPercent := (holding.ValueUSD - position.TotalInvested) / position.TotalInvested * 100
	lossAmount := holding.ValueUSD - position.TotalInvested

	signals := rugSignals{
		largeLoss: lossPercent <= lossThresholdPercent,
		oldEnough: now.Sub(position.LastPurchase) > minAgeDays*24*time.Hour,
		deadPrice: holding.PriceUSD < deadPriceUSD,
		holdsMost: holdPercentage > mostHoldFraction,
	}

	confidence := signals.confidence()
	if confidence == domain.ConfidenceLow {
		return domain.RuggedToken{}, false
	}

	return domain.RuggedToken{
		Name:           holding.Name,
		Symbol:         holding.Symbol,
		Chain:          holding.Chain,
		AmountInvested: position.TotalInvested,
		CurrentValue:   holding.ValueUSD,
		LossPercent:    lossPercent,
		LossAmount:     lossAmount,
		PurchaseDate:   position.FirstPurchase,
		Confidence:     confidence,
	}, true
}

// currentTokenAmount resolves how many tokens the wallet holds right now.
// The balance field is not always present upstream; when it is missing or
// unparsable the amount is derived from value and unit price, and an
// unresolvable amount is 0 so the hold-percentage gate skips the holding.
func currentTokenAmount(holding domain.TokenBalance) float64 {
	if holding.Balance != "" {
		if amount, err := strconv.ParseFloat(holding.Balance, 64); err == nil && amount > 0 {
			return amount
		}
	}
	if holding.PriceUSD > 0 {
		return holding.ValueUSD / holding.PriceUSD
	}
	return 0
}
