package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/walletfacts/funfacts/internal/adapters/coingecko"
	"github.com/walletfacts/funfacts/internal/adapters/nansen"
	"github.com/walletfacts/funfacts/internal/cache"
	"github.com/walletfacts/funfacts/internal/config"
	"github.com/walletfacts/funfacts/internal/core/service"
	"github.com/walletfacts/funfacts/internal/logging"
	"github.com/walletfacts/funfacts/internal/validator"
)

func main() {
	_ = godotenv.Load() // Load .env if present

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)

	nansenClient := nansen.NewClient(cfg.NansenAPIKey, cfg.NansenBaseURL, log)
	geckoClient := coingecko.NewClient(cfg.GeckoAPIKey, cfg.GeckoBaseURL, log)

	priceCache, err := cache.NewPriceCache(cfg.EthPriceTable)
	if err != nil {
		log.WithError(err).Warn("ETH price table unavailable, continuing without it")
		priceCache, _ = cache.NewPriceCache("")
	}

	athStore := newATHStore(cfg, log)

	analyzer := service.NewAnalyzer(
		service.NewRuggedDetector(nansenClient, nansenClient, log),
		service.NewEthBenchmark(nansenClient, nansenClient, geckoClient, priceCache, log),
		service.NewPortfolioATH(nansenClient, geckoClient, athStore, log),
		service.NewPnLAnalyzer(nansenClient, log),
		service.NewWinRateAnalyzer(nansenClient, log),
		service.NewHoldingsAnalyzer(nansenClient, log),
		log,
	)

	fmt.Println("Wallet Fun Facts")
	fmt.Println("Enter an EVM address to analyze, or 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		address, err := validator.NormalizeAddress(line)
		if err != nil {
			fmt.Println(err)
			continue
		}

		report := analyzer.Report(context.Background(), address)
		printReport(report)
	}
}

// newATHStore prefers Redis when enabled and reachable, falling back to the
// in-memory cache so the app works without external infrastructure.
func newATHStore(cfg *config.Config, log *logrus.Logger) cache.ATHStore {
	if cfg.RedisEnabled {
		store, err := cache.NewRedisATHStore(cache.RedisConfig{
			Address:   cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
			UseTLS:    cfg.RedisTLS,
			TTL:       cfg.ATHCacheTTL,
		})
		if err == nil {
			log.WithField("addr", cfg.RedisAddr).Info("using Redis ATH cache")
			return store
		}
		log.WithError(err).Warn("Redis unavailable, using in-memory ATH cache")
	}
	return cache.NewATHCache(cfg.ATHCacheTTL)
}

func printReport(r service.Report) {
	fmt.Printf("\n=== Fun facts for %s ===\n\n", validator.Truncate(r.Address))

	fmt.Println("Rugged projects:")
	if rug := r.RuggedProjects; rug.RuggedCount > 0 {
		fmt.Printf("  %d likely rug(s), total loss $%.2f\n", rug.RuggedCount, rug.TotalLoss)
		for _, t := range rug.RuggedTokens {
			fmt.Printf("  - %s (%s on %s): invested $%.2f, now $%.2f (%.1f%%) [%s]\n",
				t.Name, t.Symbol, t.Chain, t.AmountInvested, t.CurrentValue, t.LossPercent, t.Confidence)
		}
	} else {
		fmt.Println("  " + rug.Fallback)
	}

	fmt.Println("\nWhat if you had bought ETH:")
	if b := r.EthBenchmark; b.Success {
		fmt.Printf("  Portfolio $%.2f vs ETH strategy $%.2f: %s by %.1f%% (sampled %d of %d buys)\n",
			b.PortfolioValue, b.EthEquivalentValue, b.Status, b.PerformancePercent, b.SampleSize, b.TotalTransactions)
	} else {
		fmt.Println("  " + b.Fallback)
	}

	fmt.Println("\nPortfolio at all-time highs:")
	if a := r.PortfolioATH; a.Success {
		fmt.Printf("  Current $%.2f, at ATHs $%.2f (%.1f%% upside, %d/%d tokens resolved)\n",
			a.CurrentValue, a.ATHValue, a.PotentialGainPercent, a.SuccessfulTokens, a.SampleSize)
	} else {
		fmt.Println("  " + a.Fallback)
	}

	fmt.Println("\nRealized P&L:")
	if p := r.PnL; p.Success {
		fmt.Printf("  %s of $%.2f (%.1f%%) over %s\n", p.Status, p.RealizedPnLUSD, p.RealizedPnLPercent, p.Timeframe)
	} else {
		fmt.Println("  " + p.Fallback)
	}

	fmt.Println("\nWin rate:")
	if w := r.WinRate; w.Success {
		fmt.Printf("  %.1f%% across %d tokens (%d trades)\n", w.WinRate, w.TradedTokens, w.TradedTimes)
		if w.BestToken != nil {
			fmt.Printf("  Best performer: %s on %s, ROI %.1f%%\n", w.BestToken.Symbol, w.BestToken.Chain, w.BestToken.ROI)
		}
	} else {
		fmt.Println("  " + w.Fallback)
	}

	fmt.Println("\nBiggest bag:")
	if bb := r.BiggestBag; bb.Success {
		fmt.Printf("  %s (%s) on %s: $%.2f (%.1f%% of portfolio)\n",
			bb.TokenName, bb.TokenSymbol, bb.Chain, bb.ValueUSD, bb.PercentOfPortfolio)
	} else {
		fmt.Println("  " + bb.Fallback)
	}

	fmt.Println("\nToken diversity:")
	if d := r.TokenDiversity; d.Success {
		fmt.Printf("  %s: %d tokens worth $%.2f, top 3 hold %.1f%%\n",
			d.DiversityScore, d.UniqueTokens, d.TotalValueUSD, d.Top3Concentration)
	} else {
		fmt.Println("  " + d.Fallback)
	}

	fmt.Println("\nMulti-chain activity:")
	if m := r.MultiChain; m.Success {
		fmt.Printf("  Active on %d chains (%s), %.1f%% on %s\n",
			m.ChainCount, strings.Join(m.Chains, ", "), m.PrimaryChainPercent, m.PrimaryChain)
	} else {
		fmt.Println("  " + m.Fallback)
	}

	fmt.Println()
}
