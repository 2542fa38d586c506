package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	apperrors "github.com/ejcacciatore/sapinover-overnight-dashboard/internal/errors"
)

// Minimum sample sizes for the higher moments
const (
	MinCorrelationSamples = 3
	MinSkewnessSamples    = 3
	MinKurtosisSamples    = 4
)

// Sum returns the sum of values
func Sum(values []float64) float64 {
	return floats.Sum(values)
}

// Mean returns the arithmetic mean, or 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Median returns the middle value of a sorted copy, averaging the two
// middle elements for even lengths. Returns 0 for an empty slice.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := sortedCopy(values)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// StdDev returns the sample standard deviation (n-1 denominator).
// Returns 0 when fewer than two values are given.
func StdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	return stat.StdDev(values, nil)
}

// Percentile returns the p-th percentile (p in [0, 100]) using linear
// interpolation between the floor and ceil ranks of p/100*(n-1). This is
// not the estimator of stat.Quantile with stat.LinInterp.
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, apperrors.NewInvalidArgument("percentile of empty sequence")
	}
	if p < 0 || p > 100 || math.IsNaN(p) {
		return 0, apperrors.NewInvalidArgument("percentile rank %.2f outside [0, 100]", p)
	}
	return percentileSorted(sortedCopy(values), p), nil
}

// percentileSorted interpolates on an already sorted, non-empty slice
func percentileSorted(sorted []float64, p float64) float64 {
	index := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower] + weight*(sorted[upper]-sorted[lower])
}

// PearsonCorr returns the Pearson correlation of the paired prefix of xs
// and ys (truncated to the shorter length). It returns 0 when fewer than
// MinCorrelationSamples pairs exist or either variance is zero.
func PearsonCorr(xs, ys []float64) float64 {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if n < MinCorrelationSamples {
		return 0
	}

	xs, ys = xs[:n], ys[:n]
	if StdDev(xs) == 0 || StdDev(ys) == 0 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// Skewness returns the adjusted Fisher-Pearson sample skewness.
// Returns 0 for fewer than MinSkewnessSamples values or zero deviation.
func Skewness(values []float64) float64 {
	if len(values) < MinSkewnessSamples || StdDev(values) == 0 {
		return 0
	}
	return stat.Skew(values, nil)
}

// Kurtosis returns the excess kurtosis: the mean fourth standardized
// moment (sample standard deviation) minus 3, without the small-sample
// correction stat.ExKurtosis applies. Returns 0 for fewer than MinKurtosisSamples values or
// zero deviation.
func Kurtosis(values []float64) float64 {
	n := len(values)
	sd := StdDev(values)
	if sd == 0 || n < MinKurtosisSamples {
		return 0
	}

	mean := Mean(values)
	var sum float64
	for _, v := range values {
		z := (v - mean) / sd
		sum += z * z * z * z
	}
	return sum/float64(n) - 3
}

// Min returns the smallest value, or 0 for an empty slice
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Min(values)
}

// Max returns the largest value, or 0 for an empty slice
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Max(values)
}

func sortedCopy(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}
