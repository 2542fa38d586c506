package regime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"
)

func TestSeriesFromSummary(t *testing.T) {
	summary := map[string]domain.DailySummary{
		"2025-06-03": {AvgCapturedAlpha: 2, StdTimingDiff: 20},
		"2025-06-02": {AvgCapturedAlpha: 1, StdTimingDiff: 10},
	}

	s := SeriesFromSummary([]string{"2025-06-03", "2025-06-02", "2025-06-04"}, summary)
	assert.Equal(t, []string{"2025-06-02", "2025-06-03", "2025-06-04"}, s.Dates)
	assert.Equal(t, []float64{1, 2, 0}, s.AvgCapturedAlpha)
	assert.Equal(t, []float64{10, 20, 0}, s.StdTimingDiff)
	assert.Equal(t, 3, s.Len())
}

func TestSeriesFromObservations(t *testing.T) {
	data := []domain.Observation{
		{Date: "2025-06-03", CapturedAlpha: 4, TimingDiff: 1},
		{Date: "2025-06-02", CapturedAlpha: 1, TimingDiff: 5},
		{Date: "2025-06-03", CapturedAlpha: 6, TimingDiff: 3},
	}

	s := SeriesFromObservations(data, domain.DisplayFullRange)
	assert.Equal(t, []string{"2025-06-02", "2025-06-03"}, s.Dates)
	assert.Equal(t, []float64{1, 5}, s.AvgCapturedAlpha)
	assert.InDelta(t, 0.0, s.StdTimingDiff[0], 1e-12)
	assert.InDelta(t, 1.41421356, s.StdTimingDiff[1], 1e-6)
}

func TestAnalyze(t *testing.T) {
	values := []float64{5, 5, 5, 5, 5, -5, -5, -5, -5, -5, -5, -5}
	series := DailySeries{
		Dates:            make([]string, len(values)),
		AvgCapturedAlpha: values,
		StdTimingDiff:    constant(len(values), 8),
	}

	a, err := Analyze(series, 2)
	require.NoError(t, err)

	// rolling: nil 5 5 5 5 0 -5 -5 ...
	assert.Equal(t, None, a.Detection.Regimes[0])
	assert.Equal(t, Up, a.Detection.Regimes[3])
	assert.Equal(t, Up, a.Detection.Regimes[4])
	assert.Equal(t, Transition, a.Detection.Regimes[5])
	assert.Equal(t, Down, a.Detection.Regimes[8])

	assert.Equal(t, 2, a.Summary.UpDays)
	assert.Equal(t, 4, a.Summary.DownDays)
	assert.Equal(t, 5, a.Summary.TransitionDays)
	assert.InDelta(t, 5.0, a.Summary.AvgCapturedUp, 1e-12)
	assert.InDelta(t, -5.0, a.Summary.AvgCapturedDown, 1e-12)
	assert.Equal(t, 2, a.Summary.LongestUpRun)
	assert.Equal(t, 4, a.Summary.LongestDownRun)

	require.Len(t, a.Volatility, len(values))
	assert.Nil(t, a.Volatility[0])
	assert.InDelta(t, 8.0, *a.Volatility[11], 1e-12)

	_, err = Analyze(series, 0)
	assert.Error(t, err)
}
