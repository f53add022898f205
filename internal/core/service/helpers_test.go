package service

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/walletfacts/funfacts/internal/core/domain"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// stubTxSource returns canned transactions, optionally only for one chain so
// the fan-out still sees the other chains as empty.
type stubTxSource struct {
	mu    sync.Mutex
	txs   []domain.Transaction
	chain string
	err   error
	calls int
}

func (s *stubTxSource) Transactions(_ context.Context, q domain.TransactionQuery) ([]domain.Transaction, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.chain != "" && q.Chain != s.chain {
		return nil, nil
	}
	return s.txs, nil
}

type stubBalanceSource struct {
	balances []domain.TokenBalance
	err      error
}

func (s *stubBalanceSource) Balances(_ context.Context, _ domain.BalanceQuery) ([]domain.TokenBalance, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.balances, nil
}

type stubPnLSource struct {
	summary *domain.PnLSummary
	err     error
}

func (s *stubPnLSource) PnLSummary(_ context.Context, _ string, _, _ time.Time) (*domain.PnLSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

// stubPriceSource serves fixed prices. Historical prices are keyed by
// calendar day; ATH points by lowercase token address.
type stubPriceSource struct {
	mu         sync.Mutex
	current    float64
	currentErr error
	historical map[string]float64
	athPoints  map[string]domain.ATHPoint
	athErr     error
	athCalls   int
}

func (s *stubPriceSource) CurrentPrice(_ context.Context, _ string) (float64, error) {
	if s.currentErr != nil {
		return 0, s.currentErr
	}
	return s.current, nil
}

func (s *stubPriceSource) HistoricalPrice(_ context.Context, _ string, day time.Time) (float64, error) {
	return s.historical[day.Format("2006-01-02")], nil
}

func (s *stubPriceSource) ATHPrice(_ context.Context, _, tokenAddress string, _ int) (domain.ATHPoint, error) {
	s.mu.Lock()
	s.athCalls++
	s.mu.Unlock()
	if s.athErr != nil {
		return domain.ATHPoint{}, s.athErr
	}
	point, ok := s.athPoints[tokenAddress]
	if !ok {
		return domain.ATHPoint{}, fmt.Errorf("no series for %s", tokenAddress)
	}
	return point, nil
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
