package regime

import (
	"fmt"
	"sort"

	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/aggregate"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/stats"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"
)

// DailySeries holds the per-date inputs of regime detection, dates ascending
type DailySeries struct {
	Dates            []string  `json:"dates"`
	AvgCapturedAlpha []float64 `json:"avg_captured_alpha"`
	StdTimingDiff    []float64 `json:"std_timing_diff"`
}

// Len returns the number of days
func (s DailySeries) Len() int {
	return len(s.Dates)
}

// SeriesFromSummary reads the precomputed summary for each date. Dates
// missing from the summary contribute zeros.
func SeriesFromSummary(dates []string, summary map[string]domain.DailySummary) DailySeries {
	sorted := append([]string(nil), dates...)
	sort.Strings(sorted)

	s := DailySeries{
		Dates:            sorted,
		AvgCapturedAlpha: make([]float64, len(sorted)),
		StdTimingDiff:    make([]float64, len(sorted)),
	}
	for i, d := range sorted {
		ds := summary[d]
		s.AvgCapturedAlpha[i] = ds.AvgCapturedAlpha
		s.StdTimingDiff[i] = ds.StdTimingDiff
	}
	return s
}

// SeriesFromObservations derives the daily mean captured alpha and sample
// standard deviation of timing differential from data under mode
func SeriesFromObservations(data []domain.Observation, mode domain.DisplayMode) DailySeries {
	groups := aggregate.GroupBy(data, aggregate.ByDate)
	dates := append([]string(nil), groups.Keys...)
	sort.Strings(dates)

	s := DailySeries{
		Dates:            dates,
		AvgCapturedAlpha: make([]float64, len(dates)),
		StdTimingDiff:    make([]float64, len(dates)),
	}
	for i, d := range dates {
		members := groups.Members[d]
		ca := make([]float64, len(members))
		td := make([]float64, len(members))
		for j, o := range members {
			ca[j] = o.CapturedAlphaFor(mode)
			td[j] = o.TimingDiffFor(mode)
		}
		s.AvgCapturedAlpha[i] = stats.Mean(ca)
		s.StdTimingDiff[i] = stats.StdDev(td)
	}
	return s
}

// Summary counts regime days and averages the daily metric within them
type Summary struct {
	Window          int     `json:"window"`
	UpDays          int     `json:"up_days"`
	DownDays        int     `json:"down_days"`
	TransitionDays  int     `json:"transition_days"`
	AvgCapturedUp   float64 `json:"avg_captured_up"`
	AvgCapturedDown float64 `json:"avg_captured_down"`
	LongestUpRun    int     `json:"longest_up_run"`
	LongestDownRun  int     `json:"longest_down_run"`
}

// Summarize tallies a detection against the values it was computed from
func Summarize(values []float64, d Detection) Summary {
	s := Summary{Window: d.Window}
	var up, down []float64
	for i, r := range d.Regimes {
		switch r {
		case Up:
			s.UpDays++
			up = append(up, values[i])
		case Down:
			s.DownDays++
			down = append(down, values[i])
		case Transition:
			s.TransitionDays++
		}
	}
	s.AvgCapturedUp = stats.Mean(up)
	s.AvgCapturedDown = stats.Mean(down)

	for _, run := range d.Runs {
		switch run.Regime {
		case Up:
			s.LongestUpRun = max(s.LongestUpRun, run.Len())
		case Down:
			s.LongestDownRun = max(s.LongestDownRun, run.Len())
		}
	}
	return s
}

// Analysis is the full regime view of a daily series
type Analysis struct {
	Series     DailySeries `json:"series"`
	Detection  Detection   `json:"detection"`
	Summary    Summary     `json:"summary"`
	Volatility []*float64  `json:"rolling_volatility"`
}

// Analyze detects regimes in the daily captured alpha and smooths the
// daily timing-differential dispersion with the same window
func Analyze(series DailySeries, w int) (*Analysis, error) {
	detection, err := Detect(series.AvgCapturedAlpha, w)
	if err != nil {
		return nil, fmt.Errorf("detect regimes: %w", err)
	}
	vol, err := RollingMean(series.StdTimingDiff, w)
	if err != nil {
		return nil, fmt.Errorf("rolling volatility: %w", err)
	}

	return &Analysis{
		Series:     series,
		Detection:  detection,
		Summary:    Summarize(series.AvgCapturedAlpha, detection),
		Volatility: vol,
	}, nil
}
