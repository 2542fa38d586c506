package clustering

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ejcacciatore/sapinover-overnight-dashboard/internal/errors"
)

// twoClustersAndOutlier returns 10 points near (0,0), 9 near (10,10) and
// one far outlier at (100,100)
func twoClustersAndOutlier() [][]float64 {
	data := make([][]float64, 0, 20)
	for i := 0; i < 10; i++ {
		data = append(data, []float64{float64(i%3) * 0.05, float64(i%4) * 0.05})
	}
	for i := 0; i < 9; i++ {
		data = append(data, []float64{10 + float64(i%3)*0.05, 10 + float64(i%2)*0.05})
	}
	return append(data, []float64{100, 100})
}

func TestKMeansValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data := [][]float64{{1, 2}, {3, 4}}

	tests := []struct {
		name string
		data [][]float64
		k    int
		rng  *rand.Rand
	}{
		{"empty data", nil, 1, rng},
		{"k zero", data, 0, rng},
		{"k exceeds points", data, 3, rng},
		{"nil rng", data, 1, nil},
		{"ragged", [][]float64{{1, 2}, {3}}, 1, rng},
		{"zero dimensions", [][]float64{{}, {}}, 1, rng},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := KMeans(tt.data, tt.k, 0, tt.rng)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
		})
	}
}

func TestKMeansSingleClusterIsMean(t *testing.T) {
	data := [][]float64{{0, 0}, {2, 4}, {4, 8}, {6, 4}}
	res, err := KMeans(data, 1, 0, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 0, 0}, res.Assignments)
	require.Len(t, res.Centroids, 1)
	assert.InDeltaSlice(t, []float64{3, 4}, res.Centroids[0], 1e-12)
	assert.True(t, res.Converged)
}

func TestKMeansAssignmentsInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	data := make([][]float64, 50)
	for i := range data {
		data[i] = []float64{rng.Float64(), rng.Float64(), rng.Float64()}
	}

	for k := 1; k <= 6; k++ {
		res, err := KMeans(data, k, 0, rand.New(rand.NewSource(int64(k))))
		require.NoError(t, err)
		require.Len(t, res.Assignments, len(data))
		assert.Len(t, res.Centroids, k)
		for _, a := range res.Assignments {
			assert.GreaterOrEqual(t, a, 0)
			assert.Less(t, a, k)
		}
		assert.LessOrEqual(t, res.Iterations, DefaultMaxIterations)
	}
}

func TestKMeansSeparatesDenseGroups(t *testing.T) {
	data := twoClustersAndOutlier()

	for seed := int64(1); seed <= 10; seed++ {
		res, err := KMeans(data, 3, 0, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)

		a := res.Assignments
		for i := 1; i < 10; i++ {
			assert.Equal(t, a[0], a[i], "seed %d: first group split", seed)
		}
		for i := 11; i < 19; i++ {
			assert.Equal(t, a[10], a[i], "seed %d: second group split", seed)
		}

		distinct := map[int]bool{a[0]: true, a[10]: true, a[19]: true}
		assert.Len(t, distinct, 3, "seed %d: expected three distinct labels", seed)
	}
}

func TestKMeansDeterministicForSeed(t *testing.T) {
	data := twoClustersAndOutlier()

	first, err := KMeans(data, 3, 0, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	second, err := KMeans(data, 3, 0, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestKMeansDoesNotAliasInput(t *testing.T) {
	data := [][]float64{{1, 1}, {1, 1}, {5, 5}}
	res, err := KMeans(data, 2, 0, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	for _, c := range res.Centroids {
		c[0] = -1
	}
	assert.Equal(t, [][]float64{{1, 1}, {1, 1}, {5, 5}}, data)
}

func TestKMeansIterationCap(t *testing.T) {
	data := twoClustersAndOutlier()
	res, err := KMeans(data, 3, 1, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Iterations)
	assert.False(t, res.Converged)
}

func TestAssignTiesGoToLowestIndex(t *testing.T) {
	data := [][]float64{{0}}
	centroids := [][]float64{{-1}, {1}}
	assignments := []int{-1}

	changed := assign(data, centroids, assignments)
	assert.True(t, changed)
	assert.Equal(t, 0, assignments[0])
}

func TestUpdateKeepsEmptyCentroid(t *testing.T) {
	data := [][]float64{{1}, {3}}
	centroids := [][]float64{{0}, {50}}
	update(data, centroids, []int{0, 0})

	assert.Equal(t, [][]float64{{2}, {50}}, centroids)
}

func BenchmarkKMeans(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	data := make([][]float64, 5000)
	for i := range data {
		data[i] = []float64{rng.Float64(), rng.Float64(), rng.Float64()}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := KMeans(data, 4, 0, rand.New(rand.NewSource(int64(i)))); err != nil {
			b.Fatal(err)
		}
	}
}

// zeroSource makes every draw return 0
type zeroSource struct{}

func (zeroSource) Int63() int64 { return 0 }
func (zeroSource) Seed(int64)   {}

func TestSeedPlusPlusNeverRepicksChosenPoint(t *testing.T) {
	data := [][]float64{{0, 0}, {1, 1}}

	// a zero draw lands on the first point, which is already a centroid
	centroids := seedPlusPlus(data, 2, rand.New(zeroSource{}))
	assert.Equal(t, [][]float64{{0, 0}, {1, 1}}, centroids)

	for seed := int64(1); seed <= 50; seed++ {
		centroids := seedPlusPlus(data, 2, rand.New(rand.NewSource(seed)))
		require.Len(t, centroids, 2)
		assert.ElementsMatch(t, data, centroids, "seed %d", seed)
	}
}

func TestSeedPlusPlusIdenticalPointsFallsBack(t *testing.T) {
	data := [][]float64{{3, 3}, {3, 3}, {3, 3}, {3, 3}}

	for seed := int64(1); seed <= 20; seed++ {
		centroids := seedPlusPlus(data, 3, rand.New(rand.NewSource(seed)))
		require.Len(t, centroids, 3)
		for _, c := range centroids {
			assert.Equal(t, []float64{3, 3}, c)
		}
	}
}

func TestSeedPlusPlusFavorsDistantPoints(t *testing.T) {
	// one far point against many coincident ones: it carries all the weight
	data := [][]float64{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {50, 50}}

	for seed := int64(1); seed <= 20; seed++ {
		centroids := seedPlusPlus(data, 2, rand.New(rand.NewSource(seed)))
		assert.ElementsMatch(t, [][]float64{{0, 0}, {50, 50}}, centroids, "seed %d", seed)
	}
}
