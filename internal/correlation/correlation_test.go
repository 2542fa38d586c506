package correlation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/features"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"
)

func TestCompute(t *testing.T) {
	var data []domain.Observation
	for i := 1; i <= 6; i++ {
		v := float64(i)
		data = append(data, domain.Observation{
			CapturedAlphaW: v,
			TimingDiffW:    -2 * v,
			RefGapW:        5, // constant
			TotalGap:       v*v + 1,
			Notional:       1e6,
			Volume:         int64(i * 100),
			Executions:     int64(i),
		})
	}

	m, err := Compute(data, domain.DisplayWinsorized)
	require.NoError(t, err)
	require.Len(t, m.Labels, 7)
	require.Len(t, m.Values, 7)

	for i := range m.Values {
		assert.Equal(t, m.Values[i][i] != 0, i != 2 && i != 4, "diagonal %d", i)
		for j := range m.Values {
			assert.Equal(t, m.At(i, j), m.At(j, i))
		}
	}

	assert.Equal(t, 1.0, m.At(0, 0))
	assert.Equal(t, -1.0, m.At(0, 1))
	assert.Equal(t, 0.0, m.At(0, 2))
	assert.Equal(t, 1.0, m.At(0, 6))
	assert.Greater(t, m.At(0, 3), 0.9)
	assert.Less(t, m.At(0, 3), 1.0)

	// rounded to three decimals
	v := m.At(0, 5) * 1000
	assert.InDelta(t, math.Round(v), v, 1e-6)
}

func TestComputeTooFewObservations(t *testing.T) {
	m, err := Compute([]domain.Observation{{CapturedAlphaW: 1}, {CapturedAlphaW: 2}}, domain.DisplayWinsorized)
	require.NoError(t, err)
	for _, row := range m.Values {
		for _, v := range row {
			assert.Equal(t, 0.0, v)
		}
	}
}

func TestMetricLabels(t *testing.T) {
	m, err := Compute(nil, domain.DisplayFullRange)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Captured Alpha", "Timing Diff", "Ref Gap", "Total Gap",
		"Log Notional", "Log Volume", "Executions",
	}, m.Labels)
}

func TestColumnsMatchFeatureValues(t *testing.T) {
	data := []domain.Observation{
		{CapturedAlpha: 3, TimingDiff: 1, RefGap: -4, TotalGap: 2, Notional: 5e5, Volume: 900, Executions: 7},
		{CapturedAlpha: -1, TimingDiff: 6, RefGap: 2, TotalGap: -3, Notional: 0.5, Volume: 0, Executions: 1},
	}

	series, err := columns(data, domain.DisplayFullRange)
	require.NoError(t, err)
	require.Len(t, series, len(Metrics()))

	for i, fm := range featureMetrics {
		for j, o := range data {
			want, err := features.Value(o, fm.feature, domain.DisplayFullRange)
			require.NoError(t, err)
			assert.Equal(t, want, series[i][j], "%s row %d", fm.label, j)
		}
	}
	assert.Equal(t, []float64{7, 1}, series[len(series)-1])
}
