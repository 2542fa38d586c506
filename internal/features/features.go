// Package features maps observations to named scalar features and builds
// normalized feature vectors for clustering and correlation.
package features

import (
	"math"
	"strings"

	apperrors "github.com/ejcacciatore/sapinover-overnight-dashboard/internal/errors"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"
)

// Feature is one of the closed set of per-observation features
type Feature int

const (
	CapturedAlpha Feature = iota
	TimingDiff
	RefGap
	Notional
	Volume
	TotalGap

	featureCount
)

type descriptor struct {
	key     string
	label   string
	extract func(o domain.Observation, mode domain.DisplayMode) float64
}

// descriptors is indexed by Feature; the array length pins every variant
// to exactly one extractor.
var descriptors = [featureCount]descriptor{
	CapturedAlpha: {"capturedAlpha", "Captured Alpha", func(o domain.Observation, mode domain.DisplayMode) float64 {
		return o.CapturedAlphaFor(mode)
	}},
	TimingDiff: {"timingDiff", "Timing Diff", func(o domain.Observation, mode domain.DisplayMode) float64 {
		return o.TimingDiffFor(mode)
	}},
	RefGap: {"refGap", "Reference Gap", func(o domain.Observation, mode domain.DisplayMode) float64 {
		return o.RefGapFor(mode)
	}},
	Notional: {"notional", "Log Notional", func(o domain.Observation, _ domain.DisplayMode) float64 {
		return LogScale(o.Notional)
	}},
	Volume: {"volume", "Log Volume", func(o domain.Observation, _ domain.DisplayMode) float64 {
		return LogScale(float64(o.Volume))
	}},
	TotalGap: {"totalGap", "Total Gap", func(o domain.Observation, _ domain.DisplayMode) float64 {
		return o.TotalGap
	}},
}

// All returns every feature in declaration order
func All() []Feature {
	all := make([]Feature, 0, featureCount)
	for f := Feature(0); f < featureCount; f++ {
		all = append(all, f)
	}
	return all
}

// Valid reports whether f belongs to the closed set
func (f Feature) Valid() bool {
	return f >= 0 && f < featureCount
}

// Key returns the wire name of the feature
func (f Feature) Key() string {
	if !f.Valid() {
		return "unknown"
	}
	return descriptors[f].key
}

// Label returns the display label of the feature
func (f Feature) Label() string {
	if !f.Valid() {
		return "Unknown"
	}
	return descriptors[f].label
}

// String implements fmt.Stringer
func (f Feature) String() string {
	return f.Key()
}

// MarshalText encodes the feature by key
func (f Feature) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, apperrors.NewUnknownFeature(f.Key())
	}
	return []byte(f.Key()), nil
}

// UnmarshalText decodes a feature key
func (f *Feature) UnmarshalText(text []byte) error {
	parsed, err := ParseFeature(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFeature resolves a feature key such as "capturedAlpha"
func ParseFeature(key string) (Feature, error) {
	trimmed := strings.TrimSpace(key)
	for f := Feature(0); f < featureCount; f++ {
		if descriptors[f].key == trimmed {
			return f, nil
		}
	}
	return 0, apperrors.NewUnknownFeature(key)
}

// ParseFeatures resolves a list of feature keys, failing on the first unknown one
func ParseFeatures(keys []string) ([]Feature, error) {
	feats := make([]Feature, 0, len(keys))
	for _, key := range keys {
		f, err := ParseFeature(key)
		if err != nil {
			return nil, err
		}
		feats = append(feats, f)
	}
	return feats, nil
}

// Value extracts the feature from an observation under the display mode.
// Notional and volume are log10 scaled with a floor of 1.
func Value(o domain.Observation, f Feature, mode domain.DisplayMode) (float64, error) {
	if !f.Valid() {
		return 0, apperrors.NewUnknownFeature(f.Key())
	}
	return descriptors[f].extract(o, mode), nil
}

// LogScale returns log10(max(x, 1))
func LogScale(x float64) float64 {
	return math.Log10(math.Max(x, 1))
}

// Matrix builds one feature vector per observation, preserving order
func Matrix(data []domain.Observation, feats []Feature, mode domain.DisplayMode) ([][]float64, error) {
	for _, f := range feats {
		if !f.Valid() {
			return nil, apperrors.NewUnknownFeature(f.Key())
		}
	}

	rows := make([][]float64, len(data))
	for i, o := range data {
		row := make([]float64, len(feats))
		for j, f := range feats {
			row[j] = descriptors[f].extract(o, mode)
		}
		rows[i] = row
	}
	return rows, nil
}
