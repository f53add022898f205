package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/walletfacts/funfacts/internal/core/domain"
)

// Report is the full set of fun facts for one wallet.
type Report struct {
	Address        string                    `json:"address"`
	GeneratedAt    time.Time                 `json:"generated_at"`
	RuggedProjects domain.RuggedProjectsFact `json:"rugged_projects"`
	EthBenchmark   domain.EthBenchmarkFact   `json:"eth_benchmark"`
	PortfolioATH   domain.PortfolioATHFact   `json:"portfolio_ath"`
	PnL            domain.PnLFact            `json:"pnl"`
	WinRate        domain.WinRateFact        `json:"win_rate"`
	BiggestBag     domain.BiggestBagFact     `json:"biggest_bag"`
	TokenDiversity domain.TokenDiversityFact `json:"token_diversity"`
	MultiChain     domain.MultiChainFact     `json:"multi_chain"`
}

// Analyzer runs every fun-fact analysis for a wallet. Each analysis is
// independent and degrades to its own fallback, so the report never fails
// as a whole.
type Analyzer struct {
	rugged    *RuggedDetector
	benchmark *EthBenchmark
	ath       *PortfolioATH
	pnl       *PnLAnalyzer
	winRate   *WinRateAnalyzer
	holdings  *HoldingsAnalyzer
	log       *logrus.Entry
}

// NewAnalyzer assembles the per-feature analyzers into one entry point.
func NewAnalyzer(
	rugged *RuggedDetector,
	benchmark *EthBenchmark,
	ath *PortfolioATH,
	pnl *PnLAnalyzer,
	winRate *WinRateAnalyzer,
	holdings *HoldingsAnalyzer,
	log *logrus.Logger,
) *Analyzer {
	return &Analyzer{
		rugged:    rugged,
		benchmark: benchmark,
		ath:       ath,
		pnl:       pnl,
		winRate:   winRate,
		holdings:  holdings,
		log:       log.WithField("component", "analyzer"),
	}
}

// Report runs all analyses concurrently and collects the results. Individual
// analyses never return errors; they report through their fallback fields.
func (a *Analyzer) Report(ctx context.Context, address string) Report {
	started := time.Now()
	report := Report{
		Address:     address,
		GeneratedAt: started,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.RuggedProjects = a.rugged.Analyze(ctx, address)
		return nil
	})
	g.Go(func() error {
		report.EthBenchmark = a.benchmark.Analyze(ctx, address)
		return nil
	})
	g.Go(func() error {
		report.PortfolioATH = a.ath.Analyze(ctx, address)
		return nil
	})
	g.Go(func() error {
		report.PnL = a.pnl.Analyze(ctx, address)
		return nil
	})
	g.Go(func() error {
		report.WinRate = a.winRate.Analyze(ctx, address)
		return nil
	})
	g.Go(func() error {
		report.BiggestBag = a.holdings.BiggestBag(ctx, address)
		return nil
	})
	g.Go(func() error {
		report.TokenDiversity = a.holdings.TokenDiversity(ctx, address)
		return nil
	})
	g.Go(func() error {
		report.MultiChain = a.holdings.MultiChain(ctx, address)
		return nil
	})
	g.Wait()

	a.log.WithFields(logrus.Fields{
		"address":  address,
		"duration": time.Since(started).Round(time.Millisecond).String(),
	}).Info("report complete")
	return report
}
