package signal

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/tennis-edge/internal/models"
)

// GeneratorConfig holds the eligibility thresholds for signal generation.
type GeneratorConfig struct {
	// MinEVThreshold is the minimum expected value for a selection to qualify.
	MinEVThreshold float64
	// MinConfidence is the minimum categorical confidence level accepted.
	MinConfidence models.ConfidenceLevel
	// Thresholds are the confidence classification boundaries.
	Thresholds Thresholds
}

// DefaultGeneratorConfig returns the documented default thresholds.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MinEVThreshold: 0.05,
		MinConfidence:  models.ConfidenceMedium,
		Thresholds:     DefaultThresholds(),
	}
}

// Validate checks the generator thresholds.
func (c GeneratorConfig) Validate() error {
	if c.MinEVThreshold < 0 {
		return fmt.Errorf("min EV threshold cannot be negative, got %.4f", c.MinEVThreshold)
	}
	if !c.MinConfidence.IsValid() {
		return fmt.Errorf("unknown minimum confidence level %q", c.MinConfidence)
	}
	return c.Thresholds.Validate()
}

// ExpectedValue is the model-estimated profit fraction per unit staked.
func ExpectedValue(modelProb, odds float64) float64 {
	return modelProb*odds - 1.0
}

// Generator turns match records into sized value-bet signals. It is a pure
// transformation: persistence and delivery belong to the caller.
type Generator struct {
	cfg    GeneratorConfig
	staker *Staker
	logger *logrus.Logger
}

// NewGenerator creates a signal generator.
func NewGenerator(cfg GeneratorConfig, staker *Staker, logger *logrus.Logger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if staker == nil {
		return nil, fmt.Errorf("staker is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Generator{cfg: cfg, staker: staker, logger: logger}, nil
}

// GenerateForMatch evaluates every selection of one match against the
// eligibility thresholds and returns zero or more active signals.
//
// The whole match is rejected (DataError, kind invalid_market) when its
// market cannot be normalized. Per-selection data problems (an out-of-range
// confidence score, degenerate odds) skip that selection only and are
// logged, never fatal to the batch.
//
// Multiple selections of the same market may qualify simultaneously; each is
// emitted independently. Mutual exclusivity is enforced downstream by stake
// sizing against a single bankroll.
func (g *Generator) GenerateForMatch(match *models.Match, bankroll float64) ([]*models.Signal, error) {
	if match == nil {
		return nil, fmt.Errorf("match is required")
	}

	implied, err := NormalizeMarket(match.Quotes)
	if err != nil {
		return nil, err
	}

	var signals []*models.Signal
	for _, estimate := range match.Estimates {
		quote, ok := match.QuoteFor(estimate.Selection)
		if !ok {
			continue
		}

		sig, err := g.evaluateSelection(match, quote, estimate, implied[estimate.Selection], bankroll)
		if err != nil {
			g.logger.WithFields(logrus.Fields{
				"match_id":  match.MatchID,
				"selection": estimate.Selection,
			}).WithError(err).Warn("Skipping selection")
			continue
		}
		if sig != nil {
			signals = append(signals, sig)
		}
	}

	// Deterministic output order regardless of estimate order.
	sort.Slice(signals, func(i, j int) bool {
		return signals[i].Selection < signals[j].Selection
	})
	return signals, nil
}

func (g *Generator) evaluateSelection(match *models.Match, quote models.OddsQuote, estimate models.ProbabilityEstimate, impliedProb float64, bankroll float64) (*models.Signal, error) {
	level, err := Classify(estimate.ConfidenceScore, g.cfg.Thresholds)
	if err != nil {
		return nil, &models.DataError{
			Kind:      models.KindInvalidConfidence,
			MatchID:   match.MatchID,
			Selection: estimate.Selection,
			Message:   err.Error(),
		}
	}

	ev := ExpectedValue(estimate.ModelProb, quote.Odds)
	if ev < g.cfg.MinEVThreshold {
		return nil, nil
	}
	if level.Rank() < g.cfg.MinConfidence.Rank() {
		return nil, nil
	}

	kellyFraction, stake, err := g.staker.Size(estimate.ModelProb, quote.Odds, bankroll)
	if err != nil {
		return nil, err
	}

	sig := &models.Signal{
		ID:               uuid.New(),
		MatchID:          match.MatchID,
		Selection:        estimate.Selection,
		Opponent:         match.Opponent(estimate.Selection),
		Tournament:       match.Tournament,
		MatchTime:        match.MatchTime,
		Odds:             quote.Odds,
		ImpliedProb:      impliedProb,
		ModelProb:        estimate.ModelProb,
		ExpectedValue:    ev,
		KellyStake:       kellyFraction,
		RecommendedStake: stake,
		ConfidenceLevel:  level,
		Status:           models.SignalStatusActive,
		CreatedAt:        time.Now().UTC(),
	}
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	return sig, nil
}
