package models

import "time"

// SettlementOutcome is the settled result of a match, as delivered by the
// external settlement feed. Consumed by the backtest simulator only.
type SettlementOutcome struct {
	MatchID          string    `db:"match_id" json:"match_id" validate:"required"`
	WinningSelection string    `db:"winning_selection" json:"winning_selection" validate:"required"`
	Score            string    `db:"score" json:"score,omitempty"`
	SettlementTime   time.Time `db:"settlement_time" json:"settlement_time" validate:"required"`
}

// BetResult classifies the outcome of a simulated bet
type BetResult string

const (
	BetResultWin  BetResult = "win"
	BetResultLoss BetResult = "loss"
)

// BetRecord is one realized bet in a backtest's bet log.
type BetRecord struct {
	SignalID  string    `json:"signal_id"`
	MatchID   string    `json:"match_id"`
	Selection string    `json:"selection"`
	Odds      float64   `json:"odds"`
	Stake     float64   `json:"stake"`
	Result    BetResult `json:"result"`
	Profit    float64   `json:"profit"`
	Bankroll  float64   `json:"bankroll"`
	PlacedAt  time.Time `json:"placed_at"`
}

// Return is the per-bet return (profit over stake), used for Sharpe.
func (b BetRecord) Return() float64 {
	if b.Stake == 0 {
		return 0
	}
	return b.Profit / b.Stake
}
