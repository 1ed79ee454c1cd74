package backtest

import (
	"time"

	"github.com/yourusername/tennis-edge/internal/models"
)

// RunStatus represents the lifecycle of a single backtest run
type RunStatus string

const (
	RunStatusInitialized RunStatus = "initialized"
	RunStatusRunning     RunStatus = "running"
	RunStatusCompleted   RunStatus = "completed"
	RunStatusAborted     RunStatus = "aborted"
)

// IsTerminal reports whether the run can no longer advance.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusAborted
}

// BacktestState tracks the evolving bankroll of one replay. A state value is
// owned by exactly one run and is not reusable: a second replay must start
// from a fresh state.
type BacktestState struct {
	Status          RunStatus
	InitialBankroll float64
	CurrentBankroll float64
	PeakBankroll    float64
	EquityCurve     EquityCurve
	BetLog          []models.BetRecord
	SkippedSignals  int
}

// NewBacktestState initializes backtest state
func NewBacktestState(initialBankroll float64) *BacktestState {
	return &BacktestState{
		Status:          RunStatusInitialized,
		InitialBankroll: initialBankroll,
		CurrentBankroll: initialBankroll,
		PeakBankroll:    initialBankroll,
		BetLog:          []models.BetRecord{},
		EquityCurve:     EquityCurve{},
	}
}

// ApplyBet settles one bet against the bankroll: adjusts the bankroll by the
// bet's profit, tracks the running peak, and appends to the bet log and
// equity curve.
func (s *BacktestState) ApplyBet(bet models.BetRecord) {
	s.CurrentBankroll += bet.Profit
	if s.CurrentBankroll > s.PeakBankroll {
		s.PeakBankroll = s.CurrentBankroll
	}
	bet.Bankroll = s.CurrentBankroll
	s.BetLog = append(s.BetLog, bet)
	s.RecordEquityPoint(bet.PlacedAt, s.CurrentBankroll)
}

// RecordEquityPoint adds a point to the equity curve with the drawdown
// against the running peak.
func (s *BacktestState) RecordEquityPoint(t time.Time, value float64) {
	drawdown := 0.0
	if value < s.PeakBankroll && s.PeakBankroll > 0 {
		drawdown = (s.PeakBankroll - value) / s.PeakBankroll
	}
	s.EquityCurve = append(s.EquityCurve, EquityPoint{
		Time:     t,
		Bankroll: value,
		Drawdown: drawdown,
	})
}

// CurrentDrawdown calculates peak-to-trough drawdown at the current point.
func (s *BacktestState) CurrentDrawdown() float64 {
	if s.PeakBankroll == 0 {
		return 0
	}
	drawdown := (s.PeakBankroll - s.CurrentBankroll) / s.PeakBankroll
	if drawdown < 0 {
		return 0
	}
	return drawdown
}

// TotalProfit returns the net profit over the initial bankroll.
func (s *BacktestState) TotalProfit() float64 {
	return s.CurrentBankroll - s.InitialBankroll
}
