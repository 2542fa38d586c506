package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/infrastructure"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/report"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/risk"
)

func TestWriteReport(t *testing.T) {
	r := &report.Report{
		RunID:        "run-1",
		GeneratedAt:  time.Date(2025, 6, 13, 22, 0, 0, 0, time.UTC),
		Mode:         "winsorized",
		Observations: 12,
		Symbols:      3,
	}

	path := filepath.Join(t.TempDir(), "out", "report.json")
	require.NoError(t, writeReport(path, r, nil))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])
	assert.Equal(t, float64(12), decoded["observations"])
	assert.Equal(t, "2025-06-13T22:00:00Z", decoded["generated_at"])
}

func TestRecordStatistics(t *testing.T) {
	r := &report.Report{
		Mode:         "full_range",
		Observations: 40,
		Symbols:      4,
		Risk: report.RiskSection{
			Tail:          risk.TailRisk{VaR95: -12, VaR99: -20, CVaR: -25},
			SharpeLike:    0.3,
			Concentration: risk.Concentration{Gini: 0.5, TopDecileSharePct: 31},
		},
	}

	m := infrastructure.NewReportMetrics()
	recordStatistics(m, r)

	path := filepath.Join(t.TempDir(), "overnight.prom")
	require.NoError(t, m.WriteTextfile(path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, `overnight_report_statistic{mode="full_range",name="var_95_bps"} -12`)
	assert.Contains(t, text, `overnight_report_statistic{mode="full_range",name="gini_notional"} 0.5`)
	assert.Contains(t, text, "overnight_report_observations 40")
	assert.NotContains(t, text, "regime_up_days")
}
