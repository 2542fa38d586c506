// Package regime classifies a daily metric series into directional phases
// using a trailing moving average.
//
// A day is UP when the three most recent defined rolling averages
// (including its own) are all strictly positive, DOWN when all three are
// strictly negative, TRANSITION otherwise, and NONE before the first
// rolling average exists. This is a fixed heuristic, not a fitted
// regime-switching model.
package regime

import (
	"fmt"

	apperrors "github.com/ejcacciatore/sapinover-overnight-dashboard/internal/errors"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/stats"
)

const (
	DefaultWindow = 10
	MinWindow     = 3
	MaxWindow     = 20

	// lookback is the number of defined averages inspected per day
	lookback = 3
)

// Regime is the directional phase of one day
type Regime int

const (
	None Regime = iota
	Up
	Down
	Transition
)

// String returns the lowercase regime name
func (r Regime) String() string {
	switch r {
	case None:
		return "none"
	case Up:
		return "up"
	case Down:
		return "down"
	case Transition:
		return "transition"
	default:
		return fmt.Sprintf("regime(%d)", int(r))
	}
}

// MarshalText encodes the regime by name
func (r Regime) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// RollingMean returns the trailing mean of the last w values at each index
// i >= w-1. Earlier entries are nil.
func RollingMean(values []float64, w int) ([]*float64, error) {
	if w < 1 {
		return nil, apperrors.NewInvalidArgument("rolling window must be at least 1, got %d", w)
	}

	out := make([]*float64, len(values))
	for i := w - 1; i < len(values); i++ {
		m := stats.Mean(values[i-w+1 : i+1])
		out[i] = &m
	}
	return out, nil
}

// Classify assigns a regime to every entry of a rolling series
func Classify(rolling []*float64) []Regime {
	regimes := make([]Regime, len(rolling))
	recent := make([]float64, 0, lookback)

	for i, v := range rolling {
		if v == nil {
			regimes[i] = None
			continue
		}

		recent = append(recent, *v)
		if len(recent) > lookback {
			recent = recent[1:]
		}
		regimes[i] = classifyRecent(recent)
	}
	return regimes
}

func classifyRecent(recent []float64) Regime {
	if len(recent) < lookback {
		return Transition
	}

	allUp, allDown := true, true
	for _, v := range recent {
		if v <= 0 {
			allUp = false
		}
		if v >= 0 {
			allDown = false
		}
	}

	switch {
	case allUp:
		return Up
	case allDown:
		return Down
	default:
		return Transition
	}
}

// Run is a maximal stretch of consecutive days sharing an UP or DOWN regime.
// Start and End are inclusive indices.
type Run struct {
	Regime Regime `json:"regime"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// Len returns the number of days in the run
func (r Run) Len() int {
	return r.End - r.Start + 1
}

// Runs groups consecutive equal UP or DOWN classifications. NONE and
// TRANSITION days break runs and produce none of their own.
func Runs(regimes []Regime) []Run {
	var runs []Run
	start := 0
	for i := 1; i <= len(regimes); i++ {
		if i < len(regimes) && regimes[i] == regimes[start] {
			continue
		}
		if r := regimes[start]; r == Up || r == Down {
			runs = append(runs, Run{Regime: r, Start: start, End: i - 1})
		}
		start = i
	}
	return runs
}

// Detection is the result of regime detection over one series
type Detection struct {
	Window  int        `json:"window"`
	Rolling []*float64 `json:"rolling"`
	Regimes []Regime   `json:"regimes"`
	Runs    []Run      `json:"runs"`
}

// Detect runs rolling mean, classification and run grouping over values
func Detect(values []float64, w int) (Detection, error) {
	rolling, err := RollingMean(values, w)
	if err != nil {
		return Detection{}, err
	}
	regimes := Classify(rolling)
	return Detection{
		Window:  w,
		Rolling: rolling,
		Regimes: regimes,
		Runs:    Runs(regimes),
	}, nil
}
