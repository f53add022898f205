package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/walletfacts/funfacts/internal/core/domain"
)

// pnlLookbackYears is the realized P&L window.
const pnlLookbackYears = 1

// PnLAnalyzer reports the wallet's realized profit and loss.
type PnLAnalyzer struct {
	source domain.PnLSource
	log    *logrus.Entry
}

// NewPnLAnalyzer wires the analyzer to the P&L summary source.
func NewPnLAnalyzer(source domain.PnLSource, log *logrus.Logger) *PnLAnalyzer {
	return &PnLAnalyzer{
		source: source,
		log:    log.WithField("feature", "pnl"),
	}
}

// Analyze fetches the one-year realized P&L summary.
func (a *PnLAnalyzer) Analyze(ctx context.Context, address string) domain.PnLFact {
	fallback := domain.PnLFact{Fallback: domain.FallbackPnL}

	now := time.Now().UTC()
	summary, err := a.source.PnLSummary(ctx, address, now.AddDate(-pnlLookbackYears, 0, 0), now)
	if err != nil {
		a.log.WithError(err).Warn("pnl summary fetch failed")
		return fallback
	}
	if summary == nil || summary.TradedTimes == 0 {
		return fallback
	}

	status := domain.StatusLoss
	if summary.RealizedPnLPercent >= 0 {
		status = domain.StatusGain
	}

	return domain.PnLFact{
		Success:            true,
		RealizedPnLPercent: summary.RealizedPnLPercent,
		RealizedPnLUSD:     summary.RealizedPnLUSD,
		Status:             status,
		Timeframe:          "1 year",
	}
}
