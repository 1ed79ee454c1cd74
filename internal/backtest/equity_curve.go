package backtest

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// EquityPoint represents a point in the equity curve
type EquityPoint struct {
	Time     time.Time `json:"time"`
	Bankroll float64   `json:"bankroll"`
	Drawdown float64   `json:"drawdown"`
}

// EquityCurve is the ordered time-series of bankroll values produced by a
// replay. Points are appended in bet order, so the curve inherits the
// replay's deterministic ordering.
type EquityCurve []EquityPoint

// GetReturns calculates periodic bankroll returns between adjacent points.
func (e EquityCurve) GetReturns() []float64 {
	if len(e) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(e)-1)
	for i := 1; i < len(e); i++ {
		prev := e[i-1].Bankroll
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (e[i].Bankroll-prev)/prev)
	}
	return returns
}

// MaxDrawdown returns the largest peak-to-trough decline over the curve.
func (e EquityCurve) MaxDrawdown() float64 {
	maxDD := 0.0
	peak := 0.0
	for _, p := range e {
		if p.Bankroll > peak {
			peak = p.Bankroll
		}
		if peak == 0 {
			continue
		}
		drawdown := (peak - p.Bankroll) / peak
		if drawdown > maxDD {
			maxDD = drawdown
		}
	}
	return maxDD
}

// GetVolatility calculates standard deviation of periodic returns.
func (e EquityCurve) GetVolatility() float64 {
	returns := e.GetReturns()
	if len(returns) == 0 {
		return 0
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(len(returns))
	return math.Sqrt(variance)
}

// ToCSV exports the equity curve as a CSV string.
func (e EquityCurve) ToCSV() string {
	var buf bytes.Buffer
	buf.WriteString("time,bankroll,drawdown\n")
	for _, point := range e {
		buf.WriteString(point.Time.Format(time.RFC3339))
		buf.WriteString(",")
		buf.WriteString(strconv.FormatFloat(point.Bankroll, 'f', 2, 64))
		buf.WriteString(",")
		buf.WriteString(strconv.FormatFloat(point.Drawdown, 'f', 6, 64))
		buf.WriteString("\n")
	}
	return buf.String()
}

// ToJSON exports the equity curve as a JSON string.
func (e EquityCurve) ToJSON() string {
	data, _ := json.Marshal(e)
	return string(data)
}
