package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "overnight_report"

// ReportMetrics collects run statistics for the node-exporter textfile
// collector. A run writes them once with WriteTextfile.
type ReportMetrics struct {
	registry *prometheus.Registry

	observations    prometheus.Gauge
	symbols         prometheus.Gauge
	sectionDuration *prometheus.GaugeVec
	sectionErrors   *prometheus.CounterVec
	statistics      *prometheus.GaugeVec
	lastSuccess     prometheus.Gauge
	runDuration     prometheus.Gauge
}

// NewReportMetrics registers the report collectors on a private registry
func NewReportMetrics() *ReportMetrics {
	m := &ReportMetrics{
		registry: prometheus.NewRegistry(),
		observations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "observations",
			Help:      "Observations in the analyzed view.",
		}),
		symbols: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "symbols",
			Help:      "Distinct symbols in the analyzed view.",
		}),
		sectionDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "section_duration_seconds",
			Help:      "Time spent computing each report section.",
		}, []string{"section"}),
		sectionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "section_errors_total",
			Help:      "Report sections that failed.",
		}, []string{"section"}),
		statistics: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "statistic",
			Help:      "Headline statistics of the latest report, in their native units.",
		}, []string{"name", "mode"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful report.",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last report build.",
		}),
	}

	m.registry.MustRegister(
		m.observations,
		m.symbols,
		m.sectionDuration,
		m.sectionErrors,
		m.statistics,
		m.lastSuccess,
		m.runDuration,
	)
	return m
}

// Registry exposes the underlying registry
func (m *ReportMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveSection records the outcome of one report section
func (m *ReportMetrics) ObserveSection(section string, d time.Duration, err error) {
	m.sectionDuration.WithLabelValues(section).Set(d.Seconds())
	if err != nil {
		m.sectionErrors.WithLabelValues(section).Inc()
	}
}

// SetView records the size of the analyzed view
func (m *ReportMetrics) SetView(observations, symbols int) {
	m.observations.Set(float64(observations))
	m.symbols.Set(float64(symbols))
}

// SetStatistic records a named headline statistic
func (m *ReportMetrics) SetStatistic(name, mode string, value float64) {
	m.statistics.WithLabelValues(name, mode).Set(value)
}

// MarkSuccess records a completed run
func (m *ReportMetrics) MarkSuccess(at time.Time, d time.Duration) {
	m.lastSuccess.Set(float64(at.Unix()))
	m.runDuration.Set(d.Seconds())
}

// WriteTextfile writes every collected metric to path in the text
// exposition format, creating the parent directory
func (m *ReportMetrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
