package risk

import (
	"fmt"

	apperrors "github.com/ejcacciatore/sapinover-overnight-dashboard/internal/errors"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/stats"
)

// DefaultConfidence is the VaR confidence level in percent
const DefaultConfidence = 95.0

// TailRisk summarizes the lower tail of a return distribution in bps
type TailRisk struct {
	N          int     `json:"n"`
	Confidence float64 `json:"confidence"`
	VaR95      float64 `json:"var_95"`
	VaR99      float64 `json:"var_99"`
	VaR        float64 `json:"var"`  // at Confidence
	CVaR       float64 `json:"cvar"` // expected shortfall at Confidence
	MaxLoss    float64 `json:"max_loss"`
	Skewness   float64 `json:"skewness"`
	Kurtosis   float64 `json:"kurtosis"` // excess
}

// VaR returns the (100-confidence)th percentile of values. confidence must
// lie in (0, 100).
func VaR(values []float64, confidence float64) (float64, error) {
	if confidence <= 0 || confidence >= 100 {
		return 0, apperrors.NewInvalidArgument("confidence must be in (0, 100), got %g", confidence)
	}
	return stats.Percentile(values, 100-confidence)
}

// CVaR returns the mean of values at or below VaR(confidence). An empty
// tail yields 0.
func CVaR(values []float64, confidence float64) (float64, error) {
	threshold, err := VaR(values, confidence)
	if err != nil {
		return 0, err
	}
	return tailMean(values, threshold), nil
}

func tailMean(values []float64, threshold float64) float64 {
	tail := make([]float64, 0, len(values)/10+1)
	for _, v := range values {
		if v <= threshold {
			tail = append(tail, v)
		}
	}
	return stats.Mean(tail)
}

// Summarize computes the tail-risk summary of values at the given
// confidence level
func Summarize(values []float64, confidence float64) (TailRisk, error) {
	if len(values) == 0 {
		return TailRisk{}, apperrors.NewInvalidArgument("tail risk of empty series")
	}

	var95, err := VaR(values, 95)
	if err != nil {
		return TailRisk{}, fmt.Errorf("var 95: %w", err)
	}
	var99, err := VaR(values, 99)
	if err != nil {
		return TailRisk{}, fmt.Errorf("var 99: %w", err)
	}
	v, err := VaR(values, confidence)
	if err != nil {
		return TailRisk{}, fmt.Errorf("var %g: %w", confidence, err)
	}

	return TailRisk{
		N:          len(values),
		Confidence: confidence,
		VaR95:      var95,
		VaR99:      var99,
		VaR:        v,
		CVaR:       tailMean(values, v),
		MaxLoss:    stats.Min(values),
		Skewness:   stats.Skewness(values),
		Kurtosis:   stats.Kurtosis(values),
	}, nil
}

// SharpeLike returns mean/stdDev, or 0 when stdDev is 0
func SharpeLike(values []float64) float64 {
	sd := stats.StdDev(values)
	if sd == 0 {
		return 0
	}
	return stats.Mean(values) / sd
}
