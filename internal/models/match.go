package models

import (
	"time"
)

// MinValidOdds is the lowest decimal price accepted from any odds feed.
const MinValidOdds = 1.01

// Match represents a normalized tennis match record as delivered by the
// ingestion layer: one row per match with the quoted market and the model's
// probability estimates attached.
type Match struct {
	MatchID    string                `db:"match_id" json:"match_id" validate:"required"`
	Tournament string                `db:"tournament" json:"tournament"`
	Player1    string                `db:"player1" json:"player1" validate:"required"`
	Player2    string                `db:"player2" json:"player2" validate:"required"`
	MatchTime  time.Time             `db:"match_time" json:"match_time" validate:"required"`
	Quotes     []OddsQuote           `json:"odds"`
	Estimates  []ProbabilityEstimate `json:"model_probs"`
	CreatedAt  time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time             `db:"updated_at" json:"updated_at"`
}

// OddsQuote is a single bookmaker price for one selection of a match.
type OddsQuote struct {
	MatchID   string    `db:"match_id" json:"match_id" validate:"required"`
	Selection string    `db:"selection" json:"selection" validate:"required"`
	Odds      float64   `db:"odds" json:"value" validate:"required,gte=1.01"`
	Timestamp time.Time `db:"timestamp" json:"timestamp" validate:"required"`
}

// ImpliedProbability returns the raw (overround-inclusive) implied
// probability of the quote.
func (q OddsQuote) ImpliedProbability() float64 {
	if q.Odds <= 0 {
		return 0
	}
	return 1.0 / q.Odds
}

// ProbabilityEstimate is an externally produced model probability for one
// selection. Consumed read-only by the signal engine.
type ProbabilityEstimate struct {
	MatchID         string  `db:"match_id" json:"match_id" validate:"required"`
	Selection       string  `db:"selection" json:"selection" validate:"required"`
	ModelProb       float64 `db:"model_prob" json:"prob" validate:"required,gt=0,lt=1"`
	ConfidenceScore float64 `db:"confidence_score" json:"confidence" validate:"gte=0,lte=1"`
}

// QuoteFor returns the quote for the given selection, if present.
func (m *Match) QuoteFor(selection string) (OddsQuote, bool) {
	for _, q := range m.Quotes {
		if q.Selection == selection {
			return q, true
		}
	}
	return OddsQuote{}, false
}

// EstimateFor returns the probability estimate for the given selection, if present.
func (m *Match) EstimateFor(selection string) (ProbabilityEstimate, bool) {
	for _, e := range m.Estimates {
		if e.Selection == selection {
			return e, true
		}
	}
	return ProbabilityEstimate{}, false
}

// Opponent returns the other player of the match for a given selection.
// Returns an empty string when the selection is neither player.
func (m *Match) Opponent(selection string) string {
	switch selection {
	case m.Player1:
		return m.Player2
	case m.Player2:
		return m.Player1
	default:
		return ""
	}
}
