package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/walletfacts/funfacts/internal/core/domain"
)

// SupportedChains are the networks the analyses cover.
var SupportedChains = []string{"ethereum", "arbitrum", "polygon", "base", "optimism"}

// nativeTokenAddresses are placeholder addresses for native/gas tokens,
// which are excluded from per-token analyses.
var nativeTokenAddresses = map[string]struct{}{
	"0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee": {},
	"0x000000000000000000000000000000000000800a": {}, // zkSync ETH
}

func isNativeToken(address string) bool {
	if address == "" {
		return true
	}
	_, ok := nativeTokenAddresses[strings.ToLower(address)]
	return ok
}

func isSupportedChain(chain string) bool {
	for _, c := range SupportedChains {
		if c == chain {
			return true
		}
	}
	return false
}

// fetchAllChains fans one transaction query out to every supported chain
// and concatenates whatever comes back. A failed chain is logged and
// contributes an empty result so one bad chain does not void the others.
func fetchAllChains(ctx context.Context, src domain.TransactionSource, log *logrus.Entry, base domain.TransactionQuery) []domain.Transaction {
	results := make([][]domain.Transaction, len(SupportedChains))

	var g errgroup.Group
	for i, chain := range SupportedChains {
		i, chain := i, chain
		g.Go(func() error {
			q := base
			q.Chain = chain
			txs, err := src.Transactions(ctx, q)
			if err != nil {
				log.WithField("chain", chain).WithError(err).Warn("transaction fetch failed, substituting empty result")
				return nil
			}
			results[i] = txs
			return nil
		})
	}
	g.Wait()

	var all []domain.Transaction
	for _, txs := range results {
		all = append(all, txs...)
	}
	return all
}
