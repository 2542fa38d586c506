package features

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ejcacciatore/sapinover-overnight-dashboard/internal/errors"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"
)

func sampleObservation() domain.Observation {
	return domain.Observation{
		Symbol:         "ABC",
		Date:           "2025-01-06",
		Notional:       2_500_000,
		Volume:         1000,
		TimingDiff:     42,
		TimingDiffW:    30,
		RefGap:         -80,
		RefGapW:        -50,
		CapturedAlpha:  120,
		CapturedAlphaW: 75,
		TotalGap:       -38,
	}
}

func TestParseFeature(t *testing.T) {
	tests := []struct {
		key      string
		expected Feature
	}{
		{"capturedAlpha", CapturedAlpha},
		{"timingDiff", TimingDiff},
		{"refGap", RefGap},
		{"notional", Notional},
		{"volume", Volume},
		{" totalGap ", TotalGap},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			f, err := ParseFeature(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}

	t.Run("unknown key", func(t *testing.T) {
		_, err := ParseFeature("spread")
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrUnknownFeature))
	})

	t.Run("list stops at first unknown", func(t *testing.T) {
		_, err := ParseFeatures([]string{"refGap", "bogus", "notional"})
		assert.True(t, errors.Is(err, apperrors.ErrUnknownFeature))
	})
}

func TestFeatureMetadata(t *testing.T) {
	assert.Len(t, All(), 6)
	for _, f := range All() {
		assert.True(t, f.Valid())
		assert.NotEqual(t, "unknown", f.Key())
		assert.NotEqual(t, "Unknown", f.Label())

		text, err := f.MarshalText()
		require.NoError(t, err)
		var decoded Feature
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, f, decoded)
	}
	assert.Equal(t, "Log Notional", Notional.Label())
	assert.False(t, Feature(42).Valid())
}

func TestValue(t *testing.T) {
	o := sampleObservation()

	tests := []struct {
		name     string
		feature  Feature
		mode     domain.DisplayMode
		expected float64
	}{
		{"winsorized captured alpha", CapturedAlpha, domain.DisplayWinsorized, 75},
		{"raw captured alpha", CapturedAlpha, domain.DisplayFullRange, 120},
		{"winsorized timing diff", TimingDiff, domain.DisplayWinsorized, 30},
		{"raw timing diff", TimingDiff, domain.DisplayFullRange, 42},
		{"winsorized ref gap", RefGap, domain.DisplayWinsorized, -50},
		{"raw ref gap", RefGap, domain.DisplayFullRange, -80},
		{"log notional", Notional, domain.DisplayWinsorized, math.Log10(2_500_000)},
		{"log volume", Volume, domain.DisplayFullRange, 3},
		{"total gap ignores mode", TotalGap, domain.DisplayWinsorized, -38},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Value(o, tt.feature, tt.mode)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}

	t.Run("invalid variant", func(t *testing.T) {
		_, err := Value(o, Feature(-1), domain.DisplayWinsorized)
		assert.True(t, errors.Is(err, apperrors.ErrUnknownFeature))
	})
}

func TestLogScaleFloor(t *testing.T) {
	assert.Equal(t, 0.0, LogScale(0))
	assert.Equal(t, 0.0, LogScale(-500))
	assert.Equal(t, 0.0, LogScale(1))
	assert.InDelta(t, 6, LogScale(1e6), 1e-12)
}

func TestMatrix(t *testing.T) {
	a := sampleObservation()
	b := sampleObservation()
	b.CapturedAlphaW = -10
	b.Notional = 0

	rows, err := Matrix([]domain.Observation{a, b}, []Feature{CapturedAlpha, Notional}, domain.DisplayWinsorized)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []float64{75, math.Log10(2_500_000)}, rows[0])
	assert.Equal(t, []float64{-10, 0}, rows[1])

	_, err = Matrix([]domain.Observation{a}, []Feature{CapturedAlpha, Feature(9)}, domain.DisplayWinsorized)
	assert.True(t, errors.Is(err, apperrors.ErrUnknownFeature))
}

func TestNormalize(t *testing.T) {
	t.Run("min-max per dimension", func(t *testing.T) {
		n, err := Normalize([][]float64{
			{0, 10, 7},
			{5, 20, 7},
			{10, 15, 7},
		})
		require.NoError(t, err)

		assert.Equal(t, []float64{0, 10, 7}, n.Mins)
		assert.Equal(t, []float64{10, 20, 7}, n.Maxs)
		assert.Equal(t, []float64{0, 0, 0.5}, n.Vectors[0])
		assert.Equal(t, []float64{0.5, 1, 0.5}, n.Vectors[1])
		assert.Equal(t, []float64{1, 0.5, 0.5}, n.Vectors[2])
	})

	t.Run("round trip to original units", func(t *testing.T) {
		n, err := Normalize([][]float64{{-4, 1}, {6, 1}})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{6, 1}, n.Denormalize(n.Vectors[1]), 1e-12)
		assert.InDeltaSlice(t, []float64{-4, 1}, n.Denormalize(n.Vectors[0]), 1e-12)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Normalize(nil)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
	})

	t.Run("ragged input", func(t *testing.T) {
		_, err := Normalize([][]float64{{1, 2}, {3}})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
	})
}
