package risk

import (
	"math"
	"sort"
)

// TopDecile is the fraction of observations used by TopDecileShare
const TopDecile = 0.1

// LorenzPoint is one step of the Lorenz curve, both axes in percent
type LorenzPoint struct {
	CumObservationsPct float64 `json:"x"`
	CumWeightPct       float64 `json:"y"`
}

// Concentration describes how unevenly weight is spread across observations
type Concentration struct {
	Gini              float64       `json:"gini"`
	GiniApprox        float64       `json:"gini_approx"`
	TopDecileSharePct float64       `json:"top_decile_share_pct"`
	Lorenz            []LorenzPoint `json:"lorenz"`
}

// Lorenz returns the Lorenz curve of weights sorted ascending. It returns
// nil when there are no weights or the total weight is 0.
func Lorenz(weights []float64) []LorenzPoint {
	sorted, total := sortedAscending(weights)
	if len(sorted) == 0 || total == 0 {
		return nil
	}

	n := float64(len(sorted))
	points := make([]LorenzPoint, len(sorted))
	var running float64
	for i, w := range sorted {
		running += w
		points[i] = LorenzPoint{
			CumObservationsPct: float64(i+1) / n * 100,
			CumWeightPct:       running / total * 100,
		}
	}
	return points
}

// GiniApprox returns 1 - 2*mean(cumulative weight %)/100 over the Lorenz
// curve. It underestimates by 1/n relative to GiniCoefficient.
func GiniApprox(weights []float64) float64 {
	points := Lorenz(weights)
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.CumWeightPct
	}
	return 1 - 2*(sum/float64(len(points)))/100
}

// GiniCoefficient returns 1 - 2*(area under the Lorenz curve), with the
// area computed by the trapezoidal rule from the origin
func GiniCoefficient(weights []float64) float64 {
	points := Lorenz(weights)
	if len(points) == 0 {
		return 0
	}

	var area, prevX, prevY float64
	for _, p := range points {
		x, y := p.CumObservationsPct/100, p.CumWeightPct/100
		area += (x - prevX) * (y + prevY) / 2
		prevX, prevY = x, y
	}
	return 1 - 2*area
}

// TopShare returns the percent of total weight held by the largest
// ceil(n*fraction) observations
func TopShare(weights []float64, fraction float64) float64 {
	sorted, total := sortedAscending(weights)
	if len(sorted) == 0 || total == 0 || fraction <= 0 {
		return 0
	}

	take := int(math.Ceil(float64(len(sorted)) * fraction))
	if take > len(sorted) {
		take = len(sorted)
	}

	var top float64
	for _, w := range sorted[len(sorted)-take:] {
		top += w
	}
	return top / total * 100
}

// TopDecileShare returns TopShare at TopDecile
func TopDecileShare(weights []float64) float64 {
	return TopShare(weights, TopDecile)
}

// Measure computes the full concentration summary of weights
func Measure(weights []float64) Concentration {
	return Concentration{
		Gini:              GiniCoefficient(weights),
		GiniApprox:        GiniApprox(weights),
		TopDecileSharePct: TopDecileShare(weights),
		Lorenz:            Lorenz(weights),
	}
}

func sortedAscending(weights []float64) ([]float64, float64) {
	sorted := make([]float64, len(weights))
	copy(sorted, weights)
	sort.Float64s(sorted)

	var total float64
	for _, w := range sorted {
		total += w
	}
	return sorted, total
}
