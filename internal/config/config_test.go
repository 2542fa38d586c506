package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ejcacciatore/sapinover-overnight-dashboard/internal/errors"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overnight-report.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)

	a := cfg.Analysis
	assert.True(t, a.Winsorized)
	assert.Equal(t, domain.DisplayWinsorized, a.Mode())
	assert.Equal(t, domain.FilterAll, a.Filter.AssetType)
	assert.Equal(t, domain.FilterAll, a.Filter.Sector)
	assert.Equal(t, 4, a.ClusterK)
	assert.Equal(t, []string{"capturedAlpha", "refGap", "notional"}, a.ClusterFeatures)
	assert.Equal(t, 50, a.ClusterMaxIterations)
	assert.Equal(t, 10, a.RegimeWindow)
	assert.Equal(t, 95.0, a.ConfidenceLevel)
	assert.Equal(t, 3, a.ScreenerMinObs)
	assert.Equal(t, "avgCapturedAlpha", a.ScreenerSort.Column)
	assert.False(t, a.ScreenerSort.Ascending)
	assert.Equal(t, 10, a.SectorRiskMinObs)
	assert.Equal(t, 15, a.TopSectors)

	assert.False(t, cfg.Telemetry.EnableTracing)
	assert.Equal(t, "stdout", cfg.Telemetry.TraceExporter)
	assert.Equal(t, "data.json", cfg.Paths.DataFile)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")
	t.Setenv("OVERNIGHT_LOGGING_LEVEL", "debug")
	t.Setenv("OVERNIGHT_ANALYSIS_WINSORIZED", "false")
	t.Setenv("OVERNIGHT_ANALYSIS_CLUSTER_K", "6")
	t.Setenv("OVERNIGHT_ANALYSIS_CLUSTER_FEATURES", "timingDiff,volume")
	t.Setenv("OVERNIGHT_ANALYSIS_FILTER_ASSET_TYPE", "ETF")
	t.Setenv("OVERNIGHT_ANALYSIS_SCREENER_SORT_ASCENDING", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.Logging.SlogLevel())
	assert.Equal(t, domain.DisplayFullRange, cfg.Analysis.Mode())
	assert.Equal(t, 6, cfg.Analysis.ClusterK)
	assert.Equal(t, []string{"timingDiff", "volume"}, cfg.Analysis.ClusterFeatures)
	assert.Equal(t, "ETF", cfg.Analysis.Filter.AssetType)
	assert.True(t, cfg.Analysis.ScreenerSort.Ascending)
}

func TestLoadFileWithEnvPrecedence(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: warn
analysis:
  winsorized: false
  cluster_k: 3
  regime_window: 5
  filter:
    sector: Technology
    min_notional: 250000
  watchlist: [AAPL, MSFT]
telemetry:
  enable_tracing: true
  trace_exporter: none
paths:
  data_file: /data/overnight.json
`)
	t.Setenv(ConfigFileEnv, "")
	t.Setenv("OVERNIGHT_ANALYSIS_CLUSTER_K", "5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.Analysis.Winsorized)
	assert.Equal(t, 5, cfg.Analysis.ClusterK, "environment wins over file")
	assert.Equal(t, 5, cfg.Analysis.RegimeWindow)
	assert.Equal(t, "Technology", cfg.Analysis.Filter.Sector)
	assert.Equal(t, domain.FilterAll, cfg.Analysis.Filter.AssetType, "absent keys keep defaults")
	assert.Equal(t, 250000.0, cfg.Analysis.Filter.MinNotional)
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Analysis.Watchlist)
	assert.True(t, cfg.Telemetry.EnableTracing)
	assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
	assert.Equal(t, "/data/overnight.json", cfg.Paths.DataFile)
}

func TestLoadFileFromEnv(t *testing.T) {
	path := writeConfig(t, "analysis:\n  top_sectors: 7\n")
	t.Setenv(ConfigFileEnv, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Analysis.TopSectors)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name: "missing explicit file",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.yaml")
			},
		},
		{
			name: "malformed yaml",
			setup: func(t *testing.T) string {
				return writeConfig(t, "analysis: [unterminated")
			},
		},
		{
			name: "cluster k out of range",
			setup: func(t *testing.T) string {
				return writeConfig(t, "analysis:\n  cluster_k: 1\n")
			},
		},
		{
			name: "regime window out of range",
			setup: func(t *testing.T) string {
				return writeConfig(t, "analysis:\n  regime_window: 30\n")
			},
		},
		{
			name: "single cluster feature",
			setup: func(t *testing.T) string {
				return writeConfig(t, "analysis:\n  cluster_features: [capturedAlpha]\n")
			},
		},
		{
			name: "unknown log level",
			setup: func(t *testing.T) string {
				return writeConfig(t, "logging:\n  level: verbose\n")
			},
		},
		{
			name: "file output without path",
			setup: func(t *testing.T) string {
				return writeConfig(t, "logging:\n  output: file\n  file_path: \"\"\n")
			},
		},
		{
			name: "watchlist too long",
			setup: func(t *testing.T) string {
				return writeConfig(t, "analysis:\n  watchlist: [A, B, C, D, E, F, G]\n")
			},
		},
		{
			name: "unknown screener sort column",
			setup: func(t *testing.T) string {
				return writeConfig(t, "analysis:\n  screener_sort:\n    column: alphaScore\n")
			},
		},
		{
			name: "bad env value",
			setup: func(t *testing.T) string {
				t.Setenv("OVERNIGHT_ANALYSIS_CLUSTER_K", "many")
				return ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(ConfigFileEnv, "")
			_, err := Load(tt.setup(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrConfig)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for level, want := range tests {
		assert.Equal(t, want, LoggingConfig{Level: level}.SlogLevel(), level)
	}
}
