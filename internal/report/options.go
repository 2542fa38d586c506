package report

import (
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/text/language"

	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/aggregate"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/clustering"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/config"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/features"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/regime"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/risk"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"
)

// Recorder receives the outcome of every section
type Recorder interface {
	ObserveSection(section string, d time.Duration, err error)
}

// Options controls a report build
type Options struct {
	Mode domain.DisplayMode

	Features      []features.Feature
	K             int
	Seed          int64
	MaxIterations int

	RegimeWindow int
	Confidence   float64

	Screener     aggregate.ScreenerOptions
	SectorMinObs int
	TopSectors   int
	Watchlist    []string

	Logger   *slog.Logger
	Tracer   trace.Tracer
	Recorder Recorder // optional
}

// DefaultOptions returns the options of an unconfigured run
func DefaultOptions() Options {
	return Options{
		Mode:          domain.DisplayWinsorized,
		Features:      clustering.DefaultFeatures(),
		K:             4,
		Seed:          1,
		MaxIterations: clustering.DefaultMaxIterations,
		RegimeWindow:  regime.DefaultWindow,
		Confidence:    risk.DefaultConfidence,
		Screener:      aggregate.DefaultScreenerOptions(),
		SectorMinObs:  risk.DefaultSectorMinObs,
		TopSectors:    aggregate.DefaultTopSectors,
	}
}

// OptionsFromConfig maps the analysis configuration onto build options.
// Feature keys are resolved here so a bad key fails before any work.
func OptionsFromConfig(cfg config.AnalysisConfig) (Options, error) {
	feats, err := features.ParseFeatures(cfg.ClusterFeatures)
	if err != nil {
		return Options{}, fmt.Errorf("cluster features: %w", err)
	}

	opts := DefaultOptions()
	opts.Mode = cfg.Mode()
	opts.Features = feats
	opts.K = cfg.ClusterK
	opts.Seed = cfg.ClusterSeed
	opts.MaxIterations = cfg.ClusterMaxIterations
	opts.RegimeWindow = cfg.RegimeWindow
	opts.Confidence = cfg.ConfidenceLevel
	opts.Screener = aggregate.ScreenerOptions{
		MinObs:    cfg.ScreenerMinObs,
		AssetType: cfg.Filter.AssetType,
		Sort: aggregate.SortSpec{
			Column:    cfg.ScreenerSort.Column,
			Ascending: cfg.ScreenerSort.Ascending,
		},
		Language: language.English,
	}
	opts.SectorMinObs = cfg.SectorRiskMinObs
	opts.TopSectors = cfg.TopSectors
	opts.Watchlist = cfg.Watchlist
	return opts, nil
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o Options) tracer() trace.Tracer {
	if o.Tracer == nil {
		return noop.NewTracerProvider().Tracer("")
	}
	return o.Tracer
}
