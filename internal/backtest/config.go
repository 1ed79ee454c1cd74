package backtest

import (
	"fmt"
	"time"

	"github.com/yourusername/tennis-edge/internal/config"
)

const dateLayout = "2006-01-02"

// Config holds the parameters of one backtest run. It mirrors the request
// contract consumed from the API/CLI layer.
type Config struct {
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	StrategyName    string    `json:"strategy_name"`
	InitialBankroll float64   `json:"initial_bankroll"`
	KellyFraction   float64   `json:"kelly_fraction"`
	MaxStakePercent float64   `json:"max_stake_percent"`
	MinEVThreshold  float64   `json:"min_ev_threshold"`
}

// FromConfig converts app config to a backtest config.
func FromConfig(cfg *config.BacktestConfig, staking *config.StakingConfig) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("backtest config is required")
	}
	start, err := time.Parse(dateLayout, cfg.StartDate)
	if err != nil {
		return Config{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse(dateLayout, cfg.EndDate)
	if err != nil {
		return Config{}, fmt.Errorf("invalid end date: %w", err)
	}

	bt := Config{
		StartDate:       start,
		EndDate:         end,
		StrategyName:    cfg.Strategy,
		InitialBankroll: cfg.InitialBankroll,
	}
	if staking != nil {
		bt.KellyFraction = staking.KellyFraction
		bt.MaxStakePercent = staking.MaxStakePercent
		bt.MinEVThreshold = staking.MinEVThreshold
	}
	return bt, bt.Validate()
}

// Validate validates backtest run parameters.
func (c Config) Validate() error {
	if c.StartDate.After(c.EndDate) {
		return fmt.Errorf("start date must be before end date")
	}
	if c.InitialBankroll <= 0 {
		return fmt.Errorf("initial bankroll must be positive")
	}
	if c.KellyFraction <= 0 || c.KellyFraction > 1 {
		return fmt.Errorf("kelly fraction must be in (0,1]")
	}
	if c.MaxStakePercent <= 0 || c.MaxStakePercent > 1 {
		return fmt.Errorf("max stake percent must be in (0,1]")
	}
	if c.MinEVThreshold < 0 {
		return fmt.Errorf("min EV threshold cannot be negative")
	}
	return nil
}
