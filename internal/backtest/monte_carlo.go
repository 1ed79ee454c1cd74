package backtest

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/yourusername/tennis-edge/internal/models"
)

// MonteCarloConfig configures bet-log resampling. A zero Seed means seed
// from the clock; pass an explicit seed for reproducible runs.
type MonteCarloConfig struct {
	Iterations      int
	Seed            int64
	InitialBankroll float64
}

// MonteCarloResult summarizes resampled terminal bankrolls.
type MonteCarloResult struct {
	Iterations          int                `json:"iterations"`
	MeanReturn          float64            `json:"mean_return"`
	StdReturn           float64            `json:"std_return"`
	VaR95               float64            `json:"var_95"`
	VaR99               float64            `json:"var_99"`
	ProbabilityOfProfit float64            `json:"probability_of_profit"`
	ProbabilityOfRuin   float64            `json:"probability_of_ruin"`
	ConfidenceIntervals map[string]float64 `json:"confidence_intervals"`
}

// RunMonteCarlo resamples the bet log with replacement to estimate how
// sensitive the historical result is to bet ordering and selection. Each
// iteration draws len(bets) bets and replays their stake fractions against
// a fresh bankroll. An empty bet log is an error.
func RunMonteCarlo(ctx context.Context, bets []models.BetRecord, cfg MonteCarloConfig) (MonteCarloResult, error) {
	if len(bets) == 0 {
		return MonteCarloResult{}, fmt.Errorf("monte carlo requires a non-empty bet log")
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	if cfg.InitialBankroll <= 0 {
		return MonteCarloResult{}, fmt.Errorf("monte carlo requires a positive initial bankroll")
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// Stake fractions are replayed rather than absolute stakes so resampled
	// paths stay proportional to the simulated bankroll.
	fractions := make([]float64, len(bets))
	returns := make([]float64, len(bets))
	for i, bet := range bets {
		preBankroll := bet.Bankroll - bet.Profit
		if preBankroll <= 0 {
			return MonteCarloResult{}, fmt.Errorf("bet %s has non-positive pre-bet bankroll", bet.SignalID)
		}
		fractions[i] = bet.Stake / preBankroll
		returns[i] = bet.Return()
	}

	rng := rand.New(rand.NewSource(seed))
	distribution := make([]float64, cfg.Iterations)

	for i := 0; i < cfg.Iterations; i++ {
		select {
		case <-ctx.Done():
			return MonteCarloResult{}, ctx.Err()
		default:
		}
		bankroll := cfg.InitialBankroll
		for range bets {
			j := rng.Intn(len(bets))
			stake := fractions[j] * bankroll
			bankroll += stake * returns[j]
			if bankroll <= 0 {
				bankroll = 0
				break
			}
		}
		distribution[i] = bankroll
	}

	mean, std := meanStd(distribution)
	result := MonteCarloResult{
		Iterations:          cfg.Iterations,
		MeanReturn:          (mean - cfg.InitialBankroll) / cfg.InitialBankroll,
		StdReturn:           std / cfg.InitialBankroll,
		VaR95:               (percentile(distribution, 0.05) - cfg.InitialBankroll) / cfg.InitialBankroll,
		VaR99:               (percentile(distribution, 0.01) - cfg.InitialBankroll) / cfg.InitialBankroll,
		ProbabilityOfProfit: probabilityAbove(distribution, cfg.InitialBankroll),
		ProbabilityOfRuin:   probabilityAtOrBelow(distribution, 0),
		ConfidenceIntervals: calculateConfidenceIntervals(distribution, []float64{0.9, 0.95, 0.99}),
	}
	return result, nil
}

// ToJSON exports the result to JSON.
func (m MonteCarloResult) ToJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}

func calculateConfidenceIntervals(distribution []float64, levels []float64) map[string]float64 {
	results := make(map[string]float64)
	for _, level := range levels {
		p := (1.0 - level) / 2.0
		low := percentile(distribution, p)
		high := percentile(distribution, 1.0-p)
		results[fmt.Sprintf("%.0f%%", level*100)] = high - low
	}
	return results
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func probabilityAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func probabilityAtOrBelow(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v <= threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}
