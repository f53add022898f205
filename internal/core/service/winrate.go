package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/walletfacts/funfacts/internal/core/domain"
)

// WinRateAnalyzer reports the wallet's trading win rate and best performer.
type WinRateAnalyzer struct {
	source domain.PnLSource
	log    *logrus.Entry
}

// NewWinRateAnalyzer wires the analyzer to the P&L summary source.
func NewWinRateAnalyzer(source domain.PnLSource, log *logrus.Logger) *WinRateAnalyzer {
	return &WinRateAnalyzer{
		source: source,
		log:    log.WithField("feature", "win_rate"),
	}
}

// Analyze derives the win rate over the past year. The upstream rate is a
// fraction and is reported as a percentage.
func (a *WinRateAnalyzer) Analyze(ctx context.Context, address string) domain.WinRateFact {
	fallback := domain.WinRateFact{Fallback: domain.FallbackWinRate}

	now := time.Now().UTC()
	summary, err := a.source.PnLSummary(ctx, address, now.AddDate(-1, 0, 0), now)
	if err != nil {
		a.log.WithError(err).Warn("pnl summary fetch failed")
		return fallback
	}
	if summary == nil || !summary.HasWinRate {
		return fallback
	}
	if summary.TradedTokenCount == 0 || summary.TradedTimes == 0 {
		return fallback
	}

	fact := domain.WinRateFact{
		Success:      true,
		WinRate:      summary.WinRate * 100,
		TradedTokens: summary.TradedTokenCount,
		TradedTimes:  summary.TradedTimes,
	}

	if len(summary.TopTokens) > 0 {
		best := summary.TopTokens[0]
		for _, t := range summary.TopTokens[1:] {
			if t.RealizedROI > best.RealizedROI {
				best = t
			}
		}
		fact.BestToken = &domain.BestToken{
			Symbol: best.Symbol,
			Chain:  best.Chain,
			ROI:    best.RealizedROI * 100,
			PnL:    best.RealizedPnL,
		}
	}

	return fact
}
