package backtest

import (
	"encoding/json"
	"math"
	"time"

	"github.com/yourusername/tennis-edge/internal/models"
)

// Report holds the performance metrics of a completed (or cancelled) run.
// It is a pure function of the equity curve and bet log, immutable once
// produced; sharpe and calmar are nil where undefined.
type Report struct {
	StrategyName    string     `json:"strategy_name"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	InitialBankroll float64    `json:"initial_bankroll"`
	FinalBankroll   float64    `json:"final_bankroll"`
	TotalBets       int        `json:"total_bets"`
	WinningBets     int        `json:"winning_bets"`
	LosingBets      int        `json:"losing_bets"`
	SkippedSignals  int        `json:"skipped_signals"`
	WinRate         float64    `json:"win_rate"`
	ROI             float64    `json:"roi"`
	TotalProfit     float64    `json:"total_profit"`
	MaxDrawdown     float64    `json:"max_drawdown"`
	SharpeRatio     *float64   `json:"sharpe_ratio"`
	CalmarRatio     *float64   `json:"calmar_ratio"`
}

// CalculateReport derives the performance report from a run's final state.
// A zero-bet state yields a zero report with nil ratios, not an error.
func CalculateReport(state *BacktestState, cfg Config) Report {
	report := Report{
		StrategyName:    cfg.StrategyName,
		StartDate:       cfg.StartDate,
		EndDate:         cfg.EndDate,
		InitialBankroll: cfg.InitialBankroll,
	}
	if state == nil {
		report.FinalBankroll = cfg.InitialBankroll
		return report
	}

	report.FinalBankroll = state.CurrentBankroll
	report.SkippedSignals = state.SkippedSignals
	report.TotalBets = len(state.BetLog)
	report.WinningBets, report.LosingBets = countResults(state.BetLog)
	report.WinRate = calculateWinRate(report.WinningBets, report.TotalBets)
	report.TotalProfit = state.TotalProfit()
	if cfg.InitialBankroll > 0 {
		report.ROI = report.TotalProfit / cfg.InitialBankroll
	}
	report.MaxDrawdown = state.EquityCurve.MaxDrawdown()
	report.SharpeRatio = calculateSharpeRatio(state.BetLog)
	report.CalmarRatio = calculateCalmarRatio(report.ROI, report.MaxDrawdown)
	return report
}

// ToJSON exports the report to JSON.
func (r Report) ToJSON() string {
	data, _ := json.Marshal(r)
	return string(data)
}

func countResults(bets []models.BetRecord) (wins, losses int) {
	for _, bet := range bets {
		switch bet.Result {
		case models.BetResultWin:
			wins++
		case models.BetResultLoss:
			losses++
		}
	}
	return wins, losses
}

func calculateWinRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total)
}

// calculateSharpeRatio computes mean over stdev of per-bet returns
// (profit over stake at the time of the bet). Undefined for fewer than two
// bets or zero variance.
func calculateSharpeRatio(bets []models.BetRecord) *float64 {
	if len(bets) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(bets))
	for _, bet := range bets {
		returns = append(returns, bet.Return())
	}
	mean := average(returns)
	std := stddev(returns)
	if std == 0 {
		return nil
	}
	sharpe := mean / std
	return &sharpe
}

func calculateCalmarRatio(roi, maxDrawdown float64) *float64 {
	if maxDrawdown == 0 {
		return nil
	}
	calmar := roi / maxDrawdown
	return &calmar
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
