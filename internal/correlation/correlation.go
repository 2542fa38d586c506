// Package correlation computes the pairwise Pearson matrix over the
// dashboard's per-observation metrics.
package correlation

import (
	"math"

	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/features"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/stats"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"
)

// Metric is one correlated series
type Metric struct {
	Key   string
	Label string
}

// featureMetrics are the series read through features.Matrix, in matrix
// order. Executions follows them as the last column.
var featureMetrics = []struct {
	feature features.Feature
	label   string
}{
	{features.CapturedAlpha, "Captured Alpha"},
	{features.TimingDiff, "Timing Diff"},
	{features.RefGap, "Ref Gap"},
	{features.TotalGap, "Total Gap"},
	{features.Notional, "Log Notional"},
	{features.Volume, "Log Volume"},
}

// Metrics returns the seven correlated metrics in matrix order
func Metrics() []Metric {
	metrics := make([]Metric, 0, len(featureMetrics)+1)
	for _, fm := range featureMetrics {
		metrics = append(metrics, Metric{Key: fm.feature.Key(), Label: fm.label})
	}
	return append(metrics, Metric{Key: "executions", Label: "Executions"})
}

// Matrix is a symmetric correlation table
type Matrix struct {
	Labels []string    `json:"labels"`
	Values [][]float64 `json:"values"`
}

// At returns the coefficient between metrics i and j
func (m Matrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// Compute returns the Pearson matrix of Metrics over data, each value
// rounded to three decimals. Fewer than three observations yield zeros.
func Compute(data []domain.Observation, mode domain.DisplayMode) (Matrix, error) {
	series, err := columns(data, mode)
	if err != nil {
		return Matrix{}, err
	}

	metrics := Metrics()
	out := Matrix{
		Labels: make([]string, len(metrics)),
		Values: make([][]float64, len(metrics)),
	}
	for i, m := range metrics {
		out.Labels[i] = m.Label
		out.Values[i] = make([]float64, len(metrics))
	}

	for i := range metrics {
		for j := i; j < len(metrics); j++ {
			r := round3(stats.PearsonCorr(series[i], series[j]))
			out.Values[i][j] = r
			out.Values[j][i] = r
		}
	}
	return out, nil
}

// columns returns one series per metric, indexed like Metrics
func columns(data []domain.Observation, mode domain.DisplayMode) ([][]float64, error) {
	feats := make([]features.Feature, len(featureMetrics))
	for i, fm := range featureMetrics {
		feats[i] = fm.feature
	}
	rows, err := features.Matrix(data, feats, mode)
	if err != nil {
		return nil, err
	}

	series := make([][]float64, len(feats)+1)
	for i := range series {
		series[i] = make([]float64, len(data))
	}
	for j, row := range rows {
		for i, v := range row {
			series[i][j] = v
		}
		series[len(feats)][j] = float64(data[j].Executions)
	}
	return series, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
