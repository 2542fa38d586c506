package clustering

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	apperrors "github.com/ejcacciatore/sapinover-overnight-dashboard/internal/errors"
)

// DefaultMaxIterations caps the assignment/update loop
const DefaultMaxIterations = 50

// Result is the outcome of one clustering run
type Result struct {
	Assignments []int       `json:"assignments"` // one cluster index per input row, in [0, k)
	Centroids   [][]float64 `json:"centroids"`   // k vectors in the input space
	Iterations  int         `json:"iterations"`
	Converged   bool        `json:"converged"`
}

// KMeans clusters data into k groups. data must be non-empty with uniform
// dimensionality, 1 <= k <= len(data), and rng non-nil. maxIter <= 0 uses
// DefaultMaxIterations.
func KMeans(data [][]float64, k, maxIter int, rng *rand.Rand) (Result, error) {
	if err := validateInput(data, k, rng); err != nil {
		return Result{}, err
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	centroids := seedPlusPlus(data, k, rng)

	n := len(data)
	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1 // forces the first pass to count as a change
	}

	result := Result{Centroids: centroids}
	for iter := 0; iter < maxIter; iter++ {
		result.Iterations = iter + 1
		if !assign(data, centroids, assignments) {
			result.Converged = true
			break
		}
		update(data, centroids, assignments)
	}

	result.Assignments = assignments
	return result, nil
}

func validateInput(data [][]float64, k int, rng *rand.Rand) error {
	if len(data) == 0 {
		return apperrors.NewInvalidArgument("cluster empty data set")
	}
	if k < 1 {
		return apperrors.NewInvalidArgument("k must be at least 1, got %d", k)
	}
	if k > len(data) {
		return apperrors.NewInvalidArgument("k=%d exceeds %d data points", k, len(data))
	}
	if rng == nil {
		return apperrors.NewInvalidArgument("random source is required")
	}

	dims := len(data[0])
	if dims == 0 {
		return apperrors.NewInvalidArgument("data points have no dimensions")
	}
	for i, p := range data {
		if len(p) != dims {
			return apperrors.NewInvalidArgument("point %d has %d dimensions, expected %d", i, len(p), dims)
		}
	}
	return nil
}

// seedPlusPlus picks k initial centroids. The first is uniform; each next
// one is drawn with probability proportional to the squared distance to
// the nearest centroid chosen so far.
func seedPlusPlus(data [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(data)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(data[rng.Intn(n)]))

	dists := make([]float64, n)
	for len(centroids) < k {
		var total float64
		for i, p := range data {
			dists[i] = nearestDistance(p, centroids)
			total += dists[i]
		}

		r := rng.Float64() * total
		chosen := false
		for i := 0; i < n; i++ {
			r -= dists[i]
			// points already chosen have zero weight
			if dists[i] > 0 && r <= 0 {
				centroids = append(centroids, clone(data[i]))
				chosen = true
				break
			}
		}
		// rounding can leave r marginally positive after the last point;
		// a zero total means every point coincides with a centroid
		if !chosen {
			centroids = append(centroids, clone(data[rng.Intn(n)]))
		}
	}
	return centroids
}

// assign moves every point to its nearest centroid and reports whether
// any assignment changed
func assign(data, centroids [][]float64, assignments []int) bool {
	changed := false
	for i, p := range data {
		best, bestDist := 0, math.Inf(1)
		for c, centroid := range centroids {
			if d := squaredDistance(p, centroid); d < bestDist {
				best, bestDist = c, d
			}
		}
		if assignments[i] != best {
			assignments[i] = best
			changed = true
		}
	}
	return changed
}

// update recomputes each centroid as the mean of its members. A centroid
// with no members keeps its position.
func update(data, centroids [][]float64, assignments []int) {
	dims := len(data[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dims)
	}

	for i, p := range data {
		c := assignments[i]
		counts[c]++
		for d, v := range p {
			sums[c][d] += v
		}
	}

	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for d := range centroids[c] {
			centroids[c][d] = sums[c][d] / float64(counts[c])
		}
	}
}

func nearestDistance(p []float64, centroids [][]float64) float64 {
	best := math.Inf(1)
	for _, c := range centroids {
		if d := squaredDistance(p, c); d < best {
			best = d
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)
	return floats.Dot(diff, diff)
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
