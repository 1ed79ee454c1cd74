package signal

import (
	"fmt"

	"github.com/yourusername/tennis-edge/internal/models"
)

// Thresholds holds the boundaries that map a raw confidence score to a
// categorical level. Scores below Low classify as low, scores at or above
// High classify as high, everything between is medium.
type Thresholds struct {
	Low  float64
	High float64
}

// DefaultThresholds returns the standard classification boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{Low: 0.5, High: 0.7}
}

// Validate checks the boundaries are ordered and inside [0,1].
func (t Thresholds) Validate() error {
	if t.Low < 0 || t.Low > 1 || t.High < 0 || t.High > 1 {
		return fmt.Errorf("confidence thresholds must be within [0,1], got low=%.2f high=%.2f", t.Low, t.High)
	}
	if t.Low >= t.High {
		return fmt.Errorf("low threshold %.2f must be below high threshold %.2f", t.Low, t.High)
	}
	return nil
}

// Classify maps a model confidence score to a categorical level.
// Scores outside [0,1] fail with ErrInvalidConfidence.
func Classify(score float64, t Thresholds) (models.ConfidenceLevel, error) {
	if score < 0 || score > 1 {
		return "", fmt.Errorf("%w: %.4f", models.ErrInvalidConfidence, score)
	}
	switch {
	case score < t.Low:
		return models.ConfidenceLow, nil
	case score < t.High:
		return models.ConfidenceMedium, nil
	default:
		return models.ConfidenceHigh, nil
	}
}
