package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/yourusername/tennis-edge/internal/models"
)

func exampleState(t *testing.T) *BacktestState {
	t.Helper()
	day := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	state := NewBacktestState(10000)
	state.Status = RunStatusRunning
	state.RecordEquityPoint(day, state.CurrentBankroll)

	state.ApplyBet(models.BetRecord{
		SignalID: "s1", MatchID: "m1", Selection: "Alcaraz",
		Odds: 2.0, Stake: 500, Result: models.BetResultWin, Profit: 500,
		PlacedAt: day.Add(time.Hour),
	})
	state.ApplyBet(models.BetRecord{
		SignalID: "s2", MatchID: "m2", Selection: "Sinner",
		Odds: 1.5, Stake: 400, Result: models.BetResultLoss, Profit: -400,
		PlacedAt: day.Add(2 * time.Hour),
	})
	state.Status = RunStatusCompleted
	return state
}

func TestCalculateReport(t *testing.T) {
	state := exampleState(t)
	report := CalculateReport(state, testConfig())

	if report.TotalBets != 2 || report.WinningBets != 1 || report.LosingBets != 1 {
		t.Errorf("bets = %d/%d/%d, want 2/1/1",
			report.TotalBets, report.WinningBets, report.LosingBets)
	}
	if report.WinRate != 0.5 {
		t.Errorf("win rate = %v, want 0.5", report.WinRate)
	}
	if report.FinalBankroll != 10100 {
		t.Errorf("final bankroll = %v, want 10100", report.FinalBankroll)
	}
	if report.TotalProfit != 100 {
		t.Errorf("total profit = %v, want 100", report.TotalProfit)
	}
	if math.Abs(report.ROI-0.01) > 1e-12 {
		t.Errorf("roi = %v, want 0.01", report.ROI)
	}

	wantDD := (10500.0 - 10100.0) / 10500.0
	if math.Abs(report.MaxDrawdown-wantDD) > 1e-9 {
		t.Errorf("max drawdown = %v, want %v", report.MaxDrawdown, wantDD)
	}

	// Per-bet returns are +1.0 and -1.0: mean 0, stdev 1.
	if report.SharpeRatio == nil {
		t.Fatal("sharpe ratio = nil, want 0")
	}
	if *report.SharpeRatio != 0 {
		t.Errorf("sharpe ratio = %v, want 0", *report.SharpeRatio)
	}

	if report.CalmarRatio == nil {
		t.Fatal("calmar ratio = nil, want roi/maxDD")
	}
	if math.Abs(*report.CalmarRatio-report.ROI/wantDD) > 1e-9 {
		t.Errorf("calmar ratio = %v, want %v", *report.CalmarRatio, report.ROI/wantDD)
	}
}

func TestCalculateReportZeroBets(t *testing.T) {
	state := NewBacktestState(10000)
	state.Status = RunStatusCompleted
	report := CalculateReport(state, testConfig())

	if report.TotalBets != 0 {
		t.Errorf("total bets = %d, want 0", report.TotalBets)
	}
	if report.WinRate != 0 {
		t.Errorf("win rate = %v, want 0", report.WinRate)
	}
	if report.ROI != 0 {
		t.Errorf("roi = %v, want 0", report.ROI)
	}
	if report.SharpeRatio != nil {
		t.Errorf("sharpe ratio = %v, want nil", *report.SharpeRatio)
	}
	if report.CalmarRatio != nil {
		t.Errorf("calmar ratio = %v, want nil", *report.CalmarRatio)
	}
}

func TestCalculateReportSingleBet(t *testing.T) {
	day := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	state := NewBacktestState(10000)
	state.RecordEquityPoint(day, state.CurrentBankroll)
	state.ApplyBet(models.BetRecord{
		SignalID: "s1", MatchID: "m1", Selection: "Alcaraz",
		Odds: 2.0, Stake: 500, Result: models.BetResultWin, Profit: 500,
		PlacedAt: day.Add(time.Hour),
	})
	state.Status = RunStatusCompleted

	report := CalculateReport(state, testConfig())
	if report.SharpeRatio != nil {
		t.Errorf("sharpe ratio = %v for one bet, want nil", *report.SharpeRatio)
	}
	if report.CalmarRatio != nil {
		t.Errorf("calmar ratio = %v with zero drawdown, want nil", *report.CalmarRatio)
	}
	if report.WinRate != 1 {
		t.Errorf("win rate = %v, want 1", report.WinRate)
	}
}

func TestCalculateReportFirstBetLossDrawdown(t *testing.T) {
	day := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	state := NewBacktestState(10000)
	state.RecordEquityPoint(day, state.CurrentBankroll)
	state.ApplyBet(models.BetRecord{
		SignalID: "s1", MatchID: "m1", Selection: "Alcaraz",
		Odds: 2.0, Stake: 500, Result: models.BetResultLoss, Profit: -500,
		PlacedAt: day.Add(time.Hour),
	})
	state.Status = RunStatusCompleted

	report := CalculateReport(state, testConfig())
	if math.Abs(report.MaxDrawdown-0.05) > 1e-9 {
		t.Errorf("max drawdown = %v, want 0.05 measured from the opening balance", report.MaxDrawdown)
	}
}

func TestMaxDrawdownNeverNegative(t *testing.T) {
	curve := EquityCurve{
		{Bankroll: 10000},
		{Bankroll: 10500},
		{Bankroll: 11000},
	}
	if dd := curve.MaxDrawdown(); dd != 0 {
		t.Errorf("max drawdown = %v for monotone curve, want 0", dd)
	}
}
