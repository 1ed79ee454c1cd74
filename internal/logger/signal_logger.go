// Package logger provides a wrapper around logrus for structured logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/tennis-edge/internal/models"
)

// SignalLogger provides structured logging for the signal pipeline.
type SignalLogger struct {
	*logrus.Entry
}

// NewSignalLogger creates a new signal pipeline logger.
func NewSignalLogger(baseLogger *logrus.Logger) *SignalLogger {
	return &SignalLogger{
		Entry: baseLogger.WithField("component", "signals"),
	}
}

// LogSignalGenerated logs a newly generated value signal.
func (sl *SignalLogger) LogSignalGenerated(sig *models.Signal) {
	sl.WithFields(logrus.Fields{
		"signal_id":         sig.ID,
		"match_id":          sig.MatchID,
		"selection":         sig.Selection,
		"odds":              sig.Odds,
		"expected_value":    sig.ExpectedValue,
		"confidence_level":  sig.ConfidenceLevel,
		"recommended_stake": sig.RecommendedStake,
	}).Info("Value signal generated")
}

// LogMarketRejected logs a market that failed validation or normalization.
func (sl *SignalLogger) LogMarketRejected(matchID, reason string) {
	sl.WithFields(logrus.Fields{
		"match_id": matchID,
		"reason":   reason,
	}).Warn("Market rejected")
}

// LogStatusTransition logs a signal lifecycle change.
func (sl *SignalLogger) LogStatusTransition(signalID string, from, to models.SignalStatus) {
	sl.WithFields(logrus.Fields{
		"signal_id": signalID,
		"old_state": from,
		"new_state": to,
	}).Info("Signal status changed")
}

// BacktestLogger provides structured logging for backtest runs.
type BacktestLogger struct {
	*logrus.Entry
}

// NewBacktestLogger creates a new backtest logger.
func NewBacktestLogger(baseLogger *logrus.Logger) *BacktestLogger {
	return &BacktestLogger{
		Entry: baseLogger.WithField("component", "backtest"),
	}
}

// LogRunStarted logs the start of a backtest run.
func (bl *BacktestLogger) LogRunStarted(runID, strategy string, start, end time.Time, initialBankroll float64) {
	bl.WithFields(logrus.Fields{
		"run_id":           runID,
		"strategy":         strategy,
		"start_date":       start.Format("2006-01-02"),
		"end_date":         end.Format("2006-01-02"),
		"initial_bankroll": initialBankroll,
	}).Info("Backtest run started")
}

// LogRunCompleted logs the result of a backtest run.
func (bl *BacktestLogger) LogRunCompleted(runID string, totalBets, skipped int, finalBankroll float64, duration time.Duration) {
	bl.WithFields(logrus.Fields{
		"run_id":          runID,
		"total_bets":      totalBets,
		"skipped_signals": skipped,
		"final_bankroll":  finalBankroll,
		"duration_ms":     duration.Milliseconds(),
	}).Info("Backtest run completed")
}

// LogRunAborted logs an aborted backtest run.
func (bl *BacktestLogger) LogRunAborted(runID, reason string, betsProcessed int) {
	bl.WithFields(logrus.Fields{
		"run_id":         runID,
		"reason":         reason,
		"bets_processed": betsProcessed,
	}).Error("Backtest run aborted")
}
