// Package signal implements the value-bet detection pipeline: market
// normalization, confidence classification, expected-value signal generation
// and Kelly stake sizing.
package signal

import (
	"fmt"
	"math"

	"github.com/yourusername/tennis-edge/internal/models"
)

// NormalizeMarket removes the bookmaker overround from one market's quotes
// using proportional de-vigging: raw(s) = 1/odds(s), implied(s) = raw(s)/Σraw.
// The returned probabilities sum to exactly 1.
//
// Returns a DataError of kind invalid_market when the market has fewer than
// two quotes, a duplicate selection, odds below the minimum, or a negative
// margin (an arbitrage market, which no single bookmaker should quote).
func NormalizeMarket(quotes []models.OddsQuote) (map[string]float64, error) {
	if len(quotes) < 2 {
		return nil, &models.DataError{
			Kind:    models.KindInvalidMarket,
			MatchID: marketMatchID(quotes),
			Message: fmt.Sprintf("need at least 2 quotes, got %d", len(quotes)),
		}
	}

	matchID := quotes[0].MatchID
	rawSum := 0.0
	raw := make(map[string]float64, len(quotes))
	for _, q := range quotes {
		if q.MatchID != matchID {
			return nil, &models.DataError{
				Kind:    models.KindInvalidMarket,
				MatchID: matchID,
				Message: fmt.Sprintf("mixed match ids in market: %s and %s", matchID, q.MatchID),
			}
		}
		if q.Odds < models.MinValidOdds {
			return nil, &models.DataError{
				Kind:      models.KindInvalidMarket,
				MatchID:   matchID,
				Selection: q.Selection,
				Message:   fmt.Sprintf("odds %.4f below minimum %.2f", q.Odds, models.MinValidOdds),
			}
		}
		if _, exists := raw[q.Selection]; exists {
			return nil, &models.DataError{
				Kind:      models.KindInvalidMarket,
				MatchID:   matchID,
				Selection: q.Selection,
				Message:   "duplicate selection in market",
			}
		}
		implied := 1.0 / q.Odds
		raw[q.Selection] = implied
		rawSum += implied
	}

	margin := rawSum - 1.0
	if margin < 0 {
		return nil, &models.DataError{
			Kind:    models.KindInvalidMarket,
			MatchID: matchID,
			Message: fmt.Sprintf("negative margin %.4f: implied probabilities sum below 1", margin),
		}
	}

	normalized := make(map[string]float64, len(raw))
	for selection, p := range raw {
		normalized[selection] = p / rawSum
	}
	return normalized, nil
}

// MarketMargin returns the bookmaker overround of a set of quotes
// (Σ 1/odds − 1). Negative values indicate an arbitrage market.
func MarketMargin(quotes []models.OddsQuote) float64 {
	sum := 0.0
	for _, q := range quotes {
		if q.Odds > 0 {
			sum += 1.0 / q.Odds
		}
	}
	return sum - 1.0
}

// ProbabilitiesSumToOne reports whether the given probabilities sum to 1
// within floating tolerance.
func ProbabilitiesSumToOne(probs map[string]float64) bool {
	sum := 0.0
	for _, p := range probs {
		sum += p
	}
	return math.Abs(sum-1.0) <= 1e-9
}

func marketMatchID(quotes []models.OddsQuote) string {
	if len(quotes) == 0 {
		return ""
	}
	return quotes[0].MatchID
}
