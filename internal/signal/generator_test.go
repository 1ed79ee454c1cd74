package signal

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/tennis-edge/internal/models"
)

func newTestGenerator(t *testing.T, cfg GeneratorConfig) *Generator {
	t.Helper()
	staker, err := NewStaker(StakerConfig{KellyFraction: 0.5, MaxStakePercent: 0.05})
	if err != nil {
		t.Fatalf("NewStaker failed: %v", err)
	}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	gen, err := NewGenerator(cfg, staker, logger)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	return gen
}

func testMatch() *models.Match {
	now := time.Now().UTC()
	return &models.Match{
		MatchID:    "m1",
		Tournament: "ATP Madrid",
		Player1:    "A",
		Player2:    "B",
		MatchTime:  now.Add(6 * time.Hour),
		Quotes: []models.OddsQuote{
			{MatchID: "m1", Selection: "A", Odds: 1.85, Timestamp: now},
			{MatchID: "m1", Selection: "B", Odds: 2.10, Timestamp: now},
		},
		Estimates: []models.ProbabilityEstimate{
			{MatchID: "m1", Selection: "A", ModelProb: 0.58, ConfidenceScore: 0.75},
			{MatchID: "m1", Selection: "B", ModelProb: 0.42, ConfidenceScore: 0.60},
		},
	}
}

func TestGenerateForMatchEmitsValueSignal(t *testing.T) {
	gen := newTestGenerator(t, DefaultGeneratorConfig())

	signals, err := gen.GenerateForMatch(testMatch(), 10000)
	if err != nil {
		t.Fatalf("GenerateForMatch failed: %v", err)
	}
	if len(signals) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(signals))
	}

	sig := signals[0]
	if sig.Selection != "A" {
		t.Errorf("expected signal on A, got %s", sig.Selection)
	}
	if math.Abs(sig.ExpectedValue-0.073) > 1e-9 {
		t.Errorf("expected EV 0.073, got %.4f", sig.ExpectedValue)
	}
	if sig.Status != models.SignalStatusActive {
		t.Errorf("expected active status, got %s", sig.Status)
	}
	if sig.ConfidenceLevel != models.ConfidenceHigh {
		t.Errorf("expected high confidence, got %s", sig.ConfidenceLevel)
	}
	if sig.RecommendedStake != 429.41 {
		t.Errorf("expected stake 429.41, got %.2f", sig.RecommendedStake)
	}
	if math.Abs(sig.ImpliedProb-0.5317) > 0.0001 {
		t.Errorf("expected implied probability near 0.5317, got %.4f", sig.ImpliedProb)
	}
	if sig.Opponent != "B" {
		t.Errorf("expected opponent B, got %s", sig.Opponent)
	}
}

func TestGenerateForMatchBelowEVThreshold(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.MinEVThreshold = 0.10
	gen := newTestGenerator(t, cfg)

	signals, err := gen.GenerateForMatch(testMatch(), 10000)
	if err != nil {
		t.Fatalf("GenerateForMatch failed: %v", err)
	}
	if len(signals) != 0 {
		t.Fatalf("expected no signals above 10%% EV, got %d", len(signals))
	}
}

func TestGenerateForMatchFiltersLowConfidence(t *testing.T) {
	gen := newTestGenerator(t, DefaultGeneratorConfig())

	match := testMatch()
	match.Estimates[0].ConfidenceScore = 0.3

	signals, err := gen.GenerateForMatch(match, 10000)
	if err != nil {
		t.Fatalf("GenerateForMatch failed: %v", err)
	}
	if len(signals) != 0 {
		t.Fatalf("expected low-confidence selection filtered, got %d signals", len(signals))
	}
}

func TestGenerateForMatchInvalidMarket(t *testing.T) {
	gen := newTestGenerator(t, DefaultGeneratorConfig())

	match := testMatch()
	match.Quotes = match.Quotes[:1]

	_, err := gen.GenerateForMatch(match, 10000)
	if !errors.Is(err, models.ErrInvalidMarket) {
		t.Fatalf("expected ErrInvalidMarket, got %v", err)
	}
}

func TestGenerateForMatchSkipsInvalidConfidence(t *testing.T) {
	gen := newTestGenerator(t, DefaultGeneratorConfig())

	match := testMatch()
	match.Estimates[0].ConfidenceScore = 1.5

	// The bad estimate is skipped, not fatal; B has no edge so zero signals.
	signals, err := gen.GenerateForMatch(match, 10000)
	if err != nil {
		t.Fatalf("expected skip-and-continue, got error: %v", err)
	}
	if len(signals) != 0 {
		t.Fatalf("expected 0 signals, got %d", len(signals))
	}
}

func TestGenerateForMatchBothSidesQualify(t *testing.T) {
	gen := newTestGenerator(t, DefaultGeneratorConfig())

	// Miscalibrated model: both selections show positive EV.
	match := testMatch()
	match.Estimates = []models.ProbabilityEstimate{
		{MatchID: "m1", Selection: "A", ModelProb: 0.60, ConfidenceScore: 0.8},
		{MatchID: "m1", Selection: "B", ModelProb: 0.52, ConfidenceScore: 0.8},
	}

	signals, err := gen.GenerateForMatch(match, 10000)
	if err != nil {
		t.Fatalf("GenerateForMatch failed: %v", err)
	}
	if len(signals) != 2 {
		t.Fatalf("expected independent signals for both selections, got %d", len(signals))
	}
	if signals[0].Selection != "A" || signals[1].Selection != "B" {
		t.Errorf("expected deterministic selection order A,B")
	}
}
