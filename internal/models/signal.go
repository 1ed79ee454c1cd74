package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SignalStatus represents the lifecycle state of a betting signal
type SignalStatus string

const (
	SignalStatusActive    SignalStatus = "active"
	SignalStatusExecuted  SignalStatus = "executed"
	SignalStatusExpired   SignalStatus = "expired"
	SignalStatusCancelled SignalStatus = "cancelled"
)

// IsTerminal reports whether no further status transition is allowed.
func (s SignalStatus) IsTerminal() bool {
	switch s {
	case SignalStatusExecuted, SignalStatusExpired, SignalStatusCancelled:
		return true
	}
	return false
}

// IsValid reports whether the status is a recognized value.
func (s SignalStatus) IsValid() bool {
	switch s {
	case SignalStatusActive, SignalStatusExecuted, SignalStatusExpired, SignalStatusCancelled:
		return true
	}
	return false
}

// ConfidenceLevel is the categorical confidence attached to a signal
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// Rank orders confidence levels for threshold comparisons (low < medium < high).
func (c ConfidenceLevel) Rank() int {
	switch c {
	case ConfidenceLow:
		return 0
	case ConfidenceMedium:
		return 1
	case ConfidenceHigh:
		return 2
	default:
		return -1
	}
}

// IsValid reports whether the level is a recognized value.
func (c ConfidenceLevel) IsValid() bool {
	return c.Rank() >= 0
}

// Signal represents a sized value-bet recommendation. Created in active
// status by the signal generator; only the status field may change
// afterwards, and never out of a terminal state.
type Signal struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	MatchID          string          `db:"match_id" json:"match_id" validate:"required"`
	Selection        string          `db:"selection" json:"selection" validate:"required"`
	Opponent         string          `db:"opponent" json:"opponent"`
	Tournament       string          `db:"tournament" json:"tournament"`
	MatchTime        time.Time       `db:"match_time" json:"match_time"`
	Odds             float64         `db:"odds" json:"odds" validate:"required,gte=1.01"`
	ImpliedProb      float64         `db:"implied_prob" json:"implied_probability" validate:"gt=0,lt=1"`
	ModelProb        float64         `db:"model_prob" json:"model_probability" validate:"gt=0,lt=1"`
	ExpectedValue    float64         `db:"expected_value" json:"expected_value"`
	KellyStake       float64         `db:"kelly_stake" json:"kelly_stake" validate:"gte=0,lte=1"`
	RecommendedStake float64         `db:"recommended_stake" json:"recommended_stake" validate:"gte=0"`
	ConfidenceLevel  ConfidenceLevel `db:"confidence_level" json:"confidence_level" validate:"required"`
	Status           SignalStatus    `db:"status" json:"status" validate:"required"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// Validate checks structural and enum constraints on a signal.
func (s *Signal) Validate() error {
	if s.MatchID == "" {
		return &DataError{Kind: KindInvalidMarket, MatchID: s.MatchID, Message: "match_id is required"}
	}
	if s.Selection == "" {
		return &DataError{Kind: KindInvalidMarket, MatchID: s.MatchID, Message: "selection is required"}
	}
	if s.Odds < MinValidOdds {
		return &DataError{Kind: KindInvalidMarket, MatchID: s.MatchID, Selection: s.Selection,
			Message: fmt.Sprintf("odds %.2f below minimum %.2f", s.Odds, MinValidOdds)}
	}
	if !s.ConfidenceLevel.IsValid() {
		return &DataError{Kind: KindInvalidConfidence, MatchID: s.MatchID, Selection: s.Selection,
			Message: fmt.Sprintf("unknown confidence level %q", s.ConfidenceLevel)}
	}
	if !s.Status.IsValid() {
		return fmt.Errorf("invalid signal status %q", s.Status)
	}
	if s.RecommendedStake < 0 {
		return fmt.Errorf("recommended stake cannot be negative")
	}
	return nil
}

// TransitionTo moves the signal to the next lifecycle state. Transitions out
// of a terminal state are rejected.
func (s *Signal) TransitionTo(next SignalStatus) error {
	if !next.IsValid() {
		return fmt.Errorf("invalid signal status %q", next)
	}
	if s.Status.IsTerminal() {
		return fmt.Errorf("signal %s is %s: cannot transition to %s", s.ID, s.Status, next)
	}
	if next == SignalStatusActive {
		return fmt.Errorf("signal %s: cannot transition back to active", s.ID)
	}
	s.Status = next
	return nil
}
