package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/tennis-edge/internal/models"
)

func TestValidateMatchClean(t *testing.T) {
	v := NewDataValidator()
	match := valueMatch("dv-001", time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC))

	assert.Empty(t, v.ValidateMatch(match))
}

func TestValidateMatchMissingFields(t *testing.T) {
	v := NewDataValidator()
	match := &models.Match{}

	problems := v.ValidateMatch(match)
	assert.Contains(t, problems, "match_id is required")
	assert.Contains(t, problems, "player1 is required")
	assert.Contains(t, problems, "player2 is required")
	assert.Contains(t, problems, "match_time is required")
}

func TestValidateMatchSamePlayers(t *testing.T) {
	v := NewDataValidator()
	match := valueMatch("dv-002", time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC))
	match.Player2 = match.Player1

	problems := v.ValidateMatch(match)
	assert.Contains(t, problems, "player1 and player2 must differ")
}

func TestValidateMatchBadOdds(t *testing.T) {
	v := NewDataValidator()
	match := valueMatch("dv-003", time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC))
	match.Quotes[0].Odds = 1.0
	match.Quotes[1].Odds = 1500

	problems := v.ValidateMatch(match)
	require.Len(t, problems, 2)
}

func TestValidateMatchBadEstimate(t *testing.T) {
	v := NewDataValidator()
	match := valueMatch("dv-004", time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC))
	match.Estimates[0].ModelProb = 1.0
	match.Estimates[1].ConfidenceScore = 1.2

	problems := v.ValidateMatch(match)
	require.Len(t, problems, 2)
}

func TestCleanMatch(t *testing.T) {
	v := NewDataValidator()
	match := valueMatch("dv-005", time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC))
	match.Player1 = "  Djokovic N. "
	match.Quotes[0].Selection = " Djokovic N.\t"
	match.Quotes[0].Odds = 2.1000000001

	v.CleanMatch(match)

	assert.Equal(t, "Djokovic N.", match.Player1)
	assert.Equal(t, "Djokovic N.", match.Quotes[0].Selection)
	assert.InDelta(t, 2.10, match.Quotes[0].Odds, 1e-9)
}
