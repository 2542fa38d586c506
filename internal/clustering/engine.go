package clustering

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	apperrors "github.com/ejcacciatore/sapinover-overnight-dashboard/internal/errors"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/features"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/stats"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"
)

const (
	// MinClusters is the smallest k accepted for observation clustering
	MinClusters = 2
	// MinFeatures is the smallest feature set accepted for observation clustering
	MinFeatures = 2
	// TopSymbolsPerCluster bounds Profile.TopSymbols
	TopSymbolsPerCluster = 5
)

// DefaultFeatures is the feature set used when none is configured
func DefaultFeatures() []features.Feature {
	return []features.Feature{features.CapturedAlpha, features.RefGap, features.Notional}
}

// Engine clusters observations with a caller-supplied random source
type Engine struct {
	rng           *rand.Rand
	maxIterations int
	logger        *slog.Logger
}

// NewEngine creates an engine drawing randomness from rng
func NewEngine(rng *rand.Rand, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		rng:           rng,
		maxIterations: DefaultMaxIterations,
		logger:        logger,
	}
}

// SetMaxIterations overrides the iteration cap. Values <= 0 restore the default.
func (e *Engine) SetMaxIterations(n int) {
	if n <= 0 {
		n = DefaultMaxIterations
	}
	e.maxIterations = n
}

// Run clusters raw vectors
func (e *Engine) Run(data [][]float64, k int) (Result, error) {
	return KMeans(data, k, e.maxIterations, e.rng)
}

// Profile summarizes one cluster's members
type Profile struct {
	Cluster          int      `json:"cluster"`
	Count            int      `json:"count"`
	AvgCapturedAlpha float64  `json:"avg_captured_alpha"`
	AvgRefGap        float64  `json:"avg_ref_gap"`
	AvgNotional      float64  `json:"avg_notional"`
	ConsistencyPct   float64  `json:"consistency_pct"`
	TopSymbols       []string `json:"top_symbols"`
}

// Analysis is the clustering of an observation view
type Analysis struct {
	Features []features.Feature `json:"features"`
	K        int                `json:"k"`
	Mode     string             `json:"mode"`
	Result   Result             `json:"result"`
	// Centroids mapped back to feature units (log10 for notional/volume)
	Centroids [][]float64 `json:"centroids"`
	Profiles  []Profile   `json:"profiles"`
}

// Cluster normalizes the selected features of data and partitions it into
// k clusters. It requires at least MinClusters clusters and MinFeatures
// features.
func (e *Engine) Cluster(ctx context.Context, data []domain.Observation, feats []features.Feature, k int, mode domain.DisplayMode) (*Analysis, error) {
	start := time.Now()

	if k < MinClusters {
		return nil, apperrors.NewInvalidArgument("cluster count must be at least %d, got %d", MinClusters, k)
	}
	if len(feats) < MinFeatures {
		return nil, apperrors.NewInvalidArgument("at least %d features required, got %d", MinFeatures, len(feats))
	}

	matrix, err := features.Matrix(data, feats, mode)
	if err != nil {
		return nil, fmt.Errorf("build feature matrix: %w", err)
	}
	norm, err := features.Normalize(matrix)
	if err != nil {
		return nil, fmt.Errorf("normalize features: %w", err)
	}

	result, err := e.Run(norm.Vectors, k)
	if err != nil {
		return nil, fmt.Errorf("run k-means: %w", err)
	}

	analysis := &Analysis{
		Features:  feats,
		K:         k,
		Mode:      mode.String(),
		Result:    result,
		Centroids: make([][]float64, len(result.Centroids)),
		Profiles:  Profiles(data, result.Assignments, k, mode),
	}
	for c, centroid := range result.Centroids {
		analysis.Centroids[c] = norm.Denormalize(centroid)
	}

	e.logger.InfoContext(ctx, "clustering complete",
		"observations", len(data),
		"k", k,
		"features", len(feats),
		"iterations", result.Iterations,
		"converged", result.Converged,
		"duration", time.Since(start),
	)

	return analysis, nil
}

// Profiles summarizes each of the k clusters given per-row assignments
func Profiles(data []domain.Observation, assignments []int, k int, mode domain.DisplayMode) []Profile {
	members := make([][]domain.Observation, k)
	for i, c := range assignments {
		if c >= 0 && c < k && i < len(data) {
			members[c] = append(members[c], data[i])
		}
	}

	profiles := make([]Profile, k)
	for c, group := range members {
		p := Profile{Cluster: c, Count: len(group), TopSymbols: []string{}}
		if len(group) == 0 {
			profiles[c] = p
			continue
		}

		ca := make([]float64, len(group))
		rg := make([]float64, len(group))
		notional := make([]float64, len(group))
		consistent := 0
		for i, o := range group {
			ca[i] = o.CapturedAlphaFor(mode)
			rg[i] = o.RefGapFor(mode)
			notional[i] = o.Notional
			if o.DirConsistency {
				consistent++
			}
		}

		p.AvgCapturedAlpha = stats.Mean(ca)
		p.AvgRefGap = stats.Mean(rg)
		p.AvgNotional = stats.Mean(notional)
		p.ConsistencyPct = float64(consistent) / float64(len(group)) * 100
		p.TopSymbols = topSymbols(group, TopSymbolsPerCluster)
		profiles[c] = p
	}
	return profiles
}

// topSymbols returns the most frequent symbols, ties broken alphabetically
func topSymbols(group []domain.Observation, limit int) []string {
	counts := make(map[string]int)
	for _, o := range group {
		counts[o.Symbol]++
	}

	symbols := make([]string, 0, len(counts))
	for s := range counts {
		symbols = append(symbols, s)
	}
	sort.Slice(symbols, func(i, j int) bool {
		if counts[symbols[i]] != counts[symbols[j]] {
			return counts[symbols[i]] > counts[symbols[j]]
		}
		return symbols[i] < symbols[j]
	})

	if len(symbols) > limit {
		symbols = symbols[:limit]
	}
	return symbols
}
