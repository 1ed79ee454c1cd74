package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrInvalidMarket        = errors.New("invalid market")
	ErrInvalidConfidence    = errors.New("confidence score out of range")
	ErrDegenerateOdds       = errors.New("degenerate odds")
	ErrInsufficientBankroll = errors.New("bankroll went negative")
	ErrNotFound             = errors.New("record not found")
	ErrDuplicateKey         = errors.New("duplicate key violation")
)

// ErrorKind classifies recoverable data-quality errors
type ErrorKind string

const (
	KindInvalidMarket     ErrorKind = "invalid_market"
	KindInvalidConfidence ErrorKind = "invalid_confidence"
	KindDegenerateOdds    ErrorKind = "degenerate_odds"
)

// DataError is a structured diagnostic for a batch-local data-quality
// problem. It identifies the offending match/selection so the caller can
// skip it, log it, and continue with the rest of the batch.
type DataError struct {
	Kind      ErrorKind
	MatchID   string
	Selection string
	Message   string
}

func (e *DataError) Error() string {
	if e.Selection != "" {
		return fmt.Sprintf("%s: match %s selection %s: %s", e.Kind, e.MatchID, e.Selection, e.Message)
	}
	return fmt.Sprintf("%s: match %s: %s", e.Kind, e.MatchID, e.Message)
}

// Unwrap maps the diagnostic onto its sentinel so callers can match with
// errors.Is.
func (e *DataError) Unwrap() error {
	switch e.Kind {
	case KindInvalidMarket:
		return ErrInvalidMarket
	case KindInvalidConfidence:
		return ErrInvalidConfidence
	case KindDegenerateOdds:
		return ErrDegenerateOdds
	}
	return nil
}
