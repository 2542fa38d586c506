package aggregate

import "github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"

// Quadrant classifies an observation by the signs of its reference gap and
// timing differential
type Quadrant int

const (
	Q1 Quadrant = iota + 1 // rg >= 0, td >= 0
	Q2                     // rg < 0, td >= 0
	Q3                     // rg < 0, td < 0
	Q4                     // rg >= 0, td < 0
)

var quadrantNames = map[Quadrant]string{
	Q1: "Momentum",
	Q2: "Mean Reversion",
	Q3: "Protection",
	Q4: "Top Tick",
}

// Quadrants lists every quadrant in display order
func Quadrants() []Quadrant {
	return []Quadrant{Q1, Q2, Q3, Q4}
}

// String returns the short code, e.g. "Q1"
func (q Quadrant) String() string {
	switch q {
	case Q1:
		return "Q1"
	case Q2:
		return "Q2"
	case Q3:
		return "Q3"
	case Q4:
		return "Q4"
	default:
		return "unknown"
	}
}

// Name returns the descriptive quadrant name
func (q Quadrant) Name() string {
	if name, ok := quadrantNames[q]; ok {
		return name
	}
	return "Unknown"
}

// QuadrantOf classifies o under mode
func QuadrantOf(o domain.Observation, mode domain.DisplayMode) Quadrant {
	rg, td := o.RefGapFor(mode), o.TimingDiffFor(mode)
	switch {
	case rg >= 0 && td >= 0:
		return Q1
	case rg < 0 && td >= 0:
		return Q2
	case rg < 0 && td < 0:
		return Q3
	default:
		return Q4
	}
}

// QuadrantSummary aggregates one quadrant's members
type QuadrantSummary struct {
	Quadrant         string  `json:"quadrant"`
	Name             string  `json:"name"`
	Count            int     `json:"count"`
	Notional         float64 `json:"notional"`
	AvgCapturedAlpha float64 `json:"avg_captured_alpha"`
	AvgRefGap        float64 `json:"avg_ref_gap"`
	ConsistencyPct   float64 `json:"consistency_pct"`
}

// QuadrantBreakdown summarizes all four quadrants in order Q1..Q4
func QuadrantBreakdown(data []domain.Observation, mode domain.DisplayMode) []QuadrantSummary {
	tallies := make(map[Quadrant]*tally, 4)
	for _, q := range Quadrants() {
		tallies[q] = &tally{}
	}
	for _, o := range data {
		tallies[QuadrantOf(o, mode)].add(o, mode)
	}

	out := make([]QuadrantSummary, 0, 4)
	for _, q := range Quadrants() {
		t := tallies[q]
		out = append(out, QuadrantSummary{
			Quadrant:         q.String(),
			Name:             q.Name(),
			Count:            t.count,
			Notional:         t.notional,
			AvgCapturedAlpha: t.avgCA(),
			AvgRefGap:        t.avgRG(),
			ConsistencyPct:   t.consistencyPct(),
		})
	}
	return out
}
