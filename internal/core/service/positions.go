package service

import (
	"github.com/walletfacts/funfacts/internal/core/domain"
)

// BuildPositions folds a wallet's transactions into per-(token, chain)
// position aggregates. Received flows credit the invested total and the
// purchased amount; sent flows credit the sold amount, but only for tokens
// the wallet bought inside the window — a sale with no tracked cost basis is
// ignored. Transaction order does not matter.
func BuildPositions(txs []domain.Transaction) map[domain.PositionKey]*domain.PositionAggregate {
	positions := make(map[domain.PositionKey]*domain.PositionAggregate)

	for _, tx := range txs {
		for _, flow := range tx.TokensReceived {
			key := domain.NewPositionKey(flow.TokenAddress, tx.Chain)

			agg, ok := positions[key]
			if !ok {
				positions[key] = &domain.PositionAggregate{
					TotalInvested:   tx.VolumeUSD,
					TokensPurchased: flow.Amount,
					NetPosition:     flow.Amount,
					FirstPurchase:   tx.Timestamp,
					LastPurchase:    tx.Timestamp,
					TxCount:         1,
				}
				continue
			}

			agg.TotalInvested += tx.VolumeUSD
			agg.TokensPurchased += flow.Amount
			agg.TxCount++
			if tx.Timestamp.Before(agg.FirstPurchase) {
				agg.FirstPurchase = tx.Timestamp
			}
			if tx.Timestamp.After(agg.LastPurchase) {
				agg.LastPurchase = tx.Timestamp
			}
			agg.NetPosition = agg.TokensPurchased - agg.TokensSold
		}

		for _, flow := range tx.TokensSent {
			key := domain.NewPositionKey(flow.TokenAddress, tx.Chain)

			agg, ok := positions[key]
			if !ok {
				continue
			}
			agg.TokensSold += flow.Amount
			agg.NetPosition = agg.TokensPurchased - agg.TokensSold
		}
	}

	return positions
}
