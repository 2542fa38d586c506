package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/config"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/dataset"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/exporter"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/infrastructure"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/report"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults to $"+config.ConfigFileEnv+" or configs/overnight-report.yaml)")
	dataPath := flag.String("data", "", "data.json to analyze (overrides paths.data_file)")
	outPath := flag.String("out", "", "report output file (defaults to stdout)")
	metricsPath := flag.String("metrics-file", "", "Prometheus textfile to write (overrides telemetry.metrics_file)")
	seed := flag.Int64("seed", 0, "clustering seed (overrides analysis.cluster_seed)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// flags win over file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			cfg.Paths.DataFile = *dataPath
		case "out":
			cfg.Paths.OutputFile = *outPath
		case "metrics-file":
			cfg.Telemetry.MetricsFile = *metricsPath
		case "seed":
			cfg.Analysis.ClusterSeed = *seed
		}
	})

	if _, err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()
	logger := infrastructure.GetLogger()

	if err := run(cfg, logger); err != nil {
		logger.Error("Overnight report failed", "error", err)
		infrastructure.CloseLogFile()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := infrastructure.EnsureTraceID(context.Background())
	start := time.Now()

	tracing, err := infrastructure.InitializeTracing(ctx, cfg.Telemetry, contracts.Version, os.Stderr, logger)
	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to flush traces", "error", err)
		}
	}()

	ctx, runSpan := tracing.Tracer.Start(ctx, "overnight_report.run")
	defer runSpan.End()
	if id := infrastructure.TraceIDFromContext(ctx); id != "" {
		logger = logger.With("otel_trace_id", id)
	}

	opts, err := report.OptionsFromConfig(cfg.Analysis)
	if err != nil {
		return err
	}

	loadCtx, span := tracing.Tracer.Start(ctx, "dataset.load")
	ds, err := dataset.NewLoader(infrastructure.WithComponent(logger, "dataset")).LoadFile(loadCtx, cfg.Paths.DataFile)
	span.End()
	if err != nil {
		return err
	}

	view := cfg.Analysis.Filter.Apply(ds.Observations)
	logger.InfoContext(ctx, "Applied filter",
		"asset_type", cfg.Analysis.Filter.AssetType,
		"sector", cfg.Analysis.Filter.Sector,
		"min_notional", cfg.Analysis.Filter.MinNotional,
		"loaded", len(ds.Observations),
		"view", len(view),
	)

	metrics := infrastructure.NewReportMetrics()
	opts.Logger = infrastructure.WithComponent(logger, "report")
	opts.Tracer = tracing.Tracer
	opts.Recorder = metrics

	r, err := report.Build(ctx, view, ds.Meta, opts)
	if err != nil {
		return err
	}

	if err := writeReport(cfg.Paths.OutputFile, r, logger); err != nil {
		return err
	}

	if cfg.Telemetry.MetricsFile != "" {
		recordStatistics(metrics, r)
		metrics.MarkSuccess(time.Now(), time.Since(start))
		if err := metrics.WriteTextfile(cfg.Telemetry.MetricsFile); err != nil {
			return err
		}
		logger.InfoContext(ctx, "Metrics written", "path", cfg.Telemetry.MetricsFile)
	}

	logger.InfoContext(ctx, "Overnight report complete",
		"run_id", r.RunID,
		"observations", r.Observations,
		"symbols", r.Symbols,
		"duration", time.Since(start),
	)
	return nil
}

// writeReport encodes r as indented JSON to path, or to stdout when path is empty
func writeReport(path string, r *report.Report, logger *slog.Logger) error {
	w := exporter.NewJSONWriter(logger)
	opts := exporter.WriteOptions{Indent: true}
	if path == "" {
		return w.Write(os.Stdout, r, opts)
	}
	return w.WriteFile(path, r, opts)
}

func recordStatistics(m *infrastructure.ReportMetrics, r *report.Report) {
	m.SetView(r.Observations, r.Symbols)
	mode := r.Mode
	m.SetStatistic("var_95_bps", mode, r.Risk.Tail.VaR95)
	m.SetStatistic("var_99_bps", mode, r.Risk.Tail.VaR99)
	m.SetStatistic("cvar_bps", mode, r.Risk.Tail.CVaR)
	m.SetStatistic("sharpe_like", mode, r.Risk.SharpeLike)
	m.SetStatistic("gini_notional", mode, r.Risk.Concentration.Gini)
	m.SetStatistic("top_decile_share_pct", mode, r.Risk.Concentration.TopDecileSharePct)
	if r.Regime != nil {
		m.SetStatistic("regime_up_days", mode, float64(r.Regime.Summary.UpDays))
		m.SetStatistic("regime_down_days", mode, float64(r.Regime.Summary.DownDays))
	}
	if r.Clusters != nil {
		m.SetStatistic("cluster_iterations", mode, float64(r.Clusters.Result.Iterations))
	}
}
