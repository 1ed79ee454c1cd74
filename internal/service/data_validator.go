package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/tennis-edge/internal/models"
)

// MaxValidOdds is the highest decimal price accepted from any odds feed.
const MaxValidOdds = 1000.0

// DataValidator validates and cleans incoming match records before they
// enter the signal pipeline.
type DataValidator struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() *DataValidator {
	return &DataValidator{}
}

// ValidateMatch validates a match record for required fields and constraints.
// Returns the list of problems found; an empty list means the record is usable.
func (v *DataValidator) ValidateMatch(match *models.Match) []string {
	var errors []string

	if match.MatchID == "" {
		errors = append(errors, "match_id is required")
	}
	if match.Player1 == "" {
		errors = append(errors, "player1 is required")
	}
	if match.Player2 == "" {
		errors = append(errors, "player2 is required")
	}
	if match.Player1 != "" && match.Player1 == match.Player2 {
		errors = append(errors, "player1 and player2 must differ")
	}
	if match.MatchTime.IsZero() {
		errors = append(errors, "match_time is required")
	}

	now := time.Now()
	if !match.MatchTime.IsZero() && match.MatchTime.After(now.Add(365*24*time.Hour)) {
		errors = append(errors, "match scheduled more than 1 year in future")
	}

	for _, quote := range match.Quotes {
		errors = append(errors, v.validateQuote(quote)...)
	}
	for _, estimate := range match.Estimates {
		errors = append(errors, v.validateEstimate(estimate)...)
	}

	return errors
}

func (v *DataValidator) validateQuote(quote models.OddsQuote) []string {
	var errors []string

	if quote.Selection == "" {
		errors = append(errors, "quote selection is required")
	}
	if quote.Odds < models.MinValidOdds {
		errors = append(errors, fmt.Sprintf("odds %.2f for %s below minimum %.2f",
			quote.Odds, quote.Selection, models.MinValidOdds))
	}
	if quote.Odds > MaxValidOdds {
		errors = append(errors, fmt.Sprintf("odds %.2f for %s above maximum %.0f",
			quote.Odds, quote.Selection, MaxValidOdds))
	}
	return errors
}

func (v *DataValidator) validateEstimate(estimate models.ProbabilityEstimate) []string {
	var errors []string

	if estimate.Selection == "" {
		errors = append(errors, "estimate selection is required")
	}
	if estimate.ModelProb <= 0 || estimate.ModelProb >= 1 {
		errors = append(errors, fmt.Sprintf("model probability %.4f for %s outside (0,1)",
			estimate.ModelProb, estimate.Selection))
	}
	if estimate.ConfidenceScore < 0 || estimate.ConfidenceScore > 1 {
		errors = append(errors, fmt.Sprintf("confidence score %.4f for %s outside [0,1]",
			estimate.ConfidenceScore, estimate.Selection))
	}
	return errors
}

// CleanMatch normalizes a match record in place: trims whitespace from
// textual fields and rounds odds to two decimals as quoted by bookmakers.
func (v *DataValidator) CleanMatch(match *models.Match) {
	match.MatchID = strings.TrimSpace(match.MatchID)
	match.Tournament = strings.TrimSpace(match.Tournament)
	match.Player1 = strings.TrimSpace(match.Player1)
	match.Player2 = strings.TrimSpace(match.Player2)

	for i := range match.Quotes {
		match.Quotes[i].Selection = strings.TrimSpace(match.Quotes[i].Selection)
		match.Quotes[i].Odds = roundOdds(match.Quotes[i].Odds)
	}
	for i := range match.Estimates {
		match.Estimates[i].Selection = strings.TrimSpace(match.Estimates[i].Selection)
	}
}

func roundOdds(odds float64) float64 {
	rounded, _ := decimal.NewFromFloat(odds).Round(2).Float64()
	return rounded
}
