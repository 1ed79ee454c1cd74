package signal

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yourusername/tennis-edge/internal/models"
)

// StakerConfig holds the risk parameters for stake sizing.
type StakerConfig struct {
	// KellyFraction scales the full Kelly stake down, in (0,1].
	KellyFraction float64
	// MaxStakePercent caps the Kelly fraction before it is applied to the
	// bankroll, in (0,1].
	MaxStakePercent float64
}

// DefaultStakerConfig returns half-Kelly sizing capped at 5% of bankroll.
func DefaultStakerConfig() StakerConfig {
	return StakerConfig{KellyFraction: 0.5, MaxStakePercent: 0.05}
}

// Validate checks the staking parameters.
func (c StakerConfig) Validate() error {
	if c.KellyFraction <= 0 || c.KellyFraction > 1 {
		return fmt.Errorf("kelly fraction must be in (0,1], got %.4f", c.KellyFraction)
	}
	if c.MaxStakePercent <= 0 || c.MaxStakePercent > 1 {
		return fmt.Errorf("max stake percent must be in (0,1], got %.4f", c.MaxStakePercent)
	}
	return nil
}

// Staker computes capped fractional-Kelly stakes against a bankroll.
type Staker struct {
	cfg StakerConfig
}

// NewStaker creates a staker with the given risk parameters.
func NewStaker(cfg StakerConfig) (*Staker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Staker{cfg: cfg}, nil
}

// Config returns the staker's risk parameters.
func (s *Staker) Config() StakerConfig {
	return s.cfg
}

// Size computes the stake for a bet.
//
// It returns the capped Kelly fraction and the monetary stake against the
// given bankroll, rounded half-to-even to the currency's 2 decimal places.
// A non-positive Kelly fraction sizes to zero: a marginal "value" signal with
// no Kelly edge is not staked. Odds at or below 1 fail with ErrDegenerateOdds
// since the Kelly denominator vanishes.
//
// Sizing is always re-evaluated against the bankroll at the time of the bet,
// never the initial bankroll; this is what makes backtests path-dependent.
func (s *Staker) Size(modelProb, odds, bankroll float64) (kellyFraction float64, stake float64, err error) {
	if odds <= 1 {
		return 0, 0, fmt.Errorf("%w: %.4f", models.ErrDegenerateOdds, odds)
	}
	if bankroll <= 0 {
		return 0, 0, nil
	}

	rawKelly := (modelProb*odds - 1.0) / (odds - 1.0)
	if rawKelly <= 0 {
		return 0, 0, nil
	}

	fractional := rawKelly * s.cfg.KellyFraction
	capped := fractional
	if capped > s.cfg.MaxStakePercent {
		capped = s.cfg.MaxStakePercent
	}

	amount := decimal.NewFromFloat(capped * bankroll).RoundBank(2)

	// The fraction cap keeps the stake within the bankroll, but clamp
	// anyway so the bankroll invariant cannot depend on rounding.
	available := decimal.NewFromFloat(bankroll).RoundBank(2)
	if amount.GreaterThan(available) {
		amount = available
	}

	stake, _ = amount.Float64()
	return capped, stake, nil
}
