package features

import (
	apperrors "github.com/ejcacciatore/sapinover-overnight-dashboard/internal/errors"
)

// Normalization holds min-max scaled vectors with the per-dimension bounds used
type Normalization struct {
	Vectors [][]float64 `json:"vectors"`
	Mins    []float64   `json:"mins"`
	Maxs    []float64   `json:"maxs"`
}

// Normalize scales each dimension independently to [0, 1]. A dimension
// whose min equals its max maps every value to 0.5. All vectors must share
// the dimensionality of the first.
func Normalize(vectors [][]float64) (Normalization, error) {
	if len(vectors) == 0 {
		return Normalization{}, apperrors.NewInvalidArgument("normalize empty vector set")
	}

	dims := len(vectors[0])
	mins := make([]float64, dims)
	maxs := make([]float64, dims)
	copy(mins, vectors[0])
	copy(maxs, vectors[0])

	for i, v := range vectors {
		if len(v) != dims {
			return Normalization{}, apperrors.NewInvalidArgument(
				"vector %d has %d dimensions, expected %d", i, len(v), dims)
		}
		for d, x := range v {
			if x < mins[d] {
				mins[d] = x
			}
			if x > maxs[d] {
				maxs[d] = x
			}
		}
	}

	normalized := make([][]float64, len(vectors))
	for i, v := range vectors {
		row := make([]float64, dims)
		for d, x := range v {
			if maxs[d] == mins[d] {
				row[d] = 0.5
				continue
			}
			row[d] = (x - mins[d]) / (maxs[d] - mins[d])
		}
		normalized[i] = row
	}

	return Normalization{Vectors: normalized, Mins: mins, Maxs: maxs}, nil
}

// Denormalize maps a vector in normalized space back to original units
func (n Normalization) Denormalize(v []float64) []float64 {
	out := make([]float64, len(v))
	for d, x := range v {
		if d >= len(n.Mins) {
			break
		}
		if n.Maxs[d] == n.Mins[d] {
			out[d] = n.Mins[d]
			continue
		}
		out[d] = n.Mins[d] + x*(n.Maxs[d]-n.Mins[d])
	}
	return out
}
