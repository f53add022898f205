package service

import (
	"context"
	"errors"
	"testing"

	"github.com/walletfacts/funfacts/internal/core/domain"
)

func TestPnLAnalyze(t *testing.T) {
	tests := []struct {
		name       string
		source     *stubPnLSource
		wantOK     bool
		wantStatus domain.PnLStatus
	}{
		{
			name: "gain",
			source: &stubPnLSource{summary: &domain.PnLSummary{
				RealizedPnLUSD:     1200,
				RealizedPnLPercent: 24,
				TradedTimes:        40,
			}},
			wantOK:     true,
			wantStatus: domain.StatusGain,
		},
		{
			name: "break even counts as gain",
			source: &stubPnLSource{summary: &domain.PnLSummary{
				TradedTimes: 3,
			}},
			wantOK:     true,
			wantStatus: domain.StatusGain,
		},
		{
			name: "loss",
			source: &stubPnLSource{summary: &domain.PnLSummary{
				RealizedPnLUSD:     -500,
				RealizedPnLPercent: -12.5,
				TradedTimes:        10,
			}},
			wantOK:     true,
			wantStatus: domain.StatusLoss,
		},
		{
			name:   "no trades",
			source: &stubPnLSource{summary: &domain.PnLSummary{}},
			wantOK: false,
		},
		{
			name:   "missing summary",
			source: &stubPnLSource{},
			wantOK: false,
		},
		{
			name:   "fetch error",
			source: &stubPnLSource{err: errors.New("upstream down")},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fact := NewPnLAnalyzer(tt.source, testLogger()).Analyze(context.Background(), "0xwallet")
			if fact.Success != tt.wantOK {
				t.Fatalf("Success = %v, want %v", fact.Success, tt.wantOK)
			}
			if !tt.wantOK {
				if fact.Fallback != domain.FallbackPnL {
					t.Errorf("Fallback = %q, want %q", fact.Fallback, domain.FallbackPnL)
				}
				return
			}
			if fact.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", fact.Status, tt.wantStatus)
			}
			if fact.Timeframe != "1 year" {
				t.Errorf("Timeframe = %q, want %q", fact.Timeframe, "1 year")
			}
		})
	}
}
