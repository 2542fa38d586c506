package report

import (
	"context"
	"fmt"
	"maps"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/aggregate"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/clustering"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/correlation"
	apperrors "github.com/ejcacciatore/sapinover-overnight-dashboard/internal/errors"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/regime"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/risk"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"
)

// Section names, used for spans, logs and metrics
const (
	SectionClusters    = "clusters"
	SectionRisk        = "risk"
	SectionCorrelation = "correlation"
	SectionHeatmaps    = "heatmaps"
	SectionBreakdowns  = "breakdowns"
	SectionScreener    = "screener"
	SectionWatchlist   = "watchlist"
	SectionRegime      = "regime"
)

// Sections lists every section in report order
func Sections() []string {
	return []string{
		SectionClusters,
		SectionRisk,
		SectionCorrelation,
		SectionHeatmaps,
		SectionBreakdowns,
		SectionScreener,
		SectionWatchlist,
		SectionRegime,
	}
}

// Report is every analytic of one view under one display mode
type Report struct {
	RunID        string    `json:"run_id"`
	GeneratedAt  time.Time `json:"generated_at"`
	Mode         string    `json:"mode"`
	Observations int       `json:"observations"`
	Symbols      int       `json:"symbols"`
	DateRange    []string  `json:"date_range,omitempty"`

	Clusters    *clustering.Analysis        `json:"clusters"`
	Risk        RiskSection                 `json:"risk"`
	Correlation correlation.Matrix          `json:"correlation"`
	Heatmaps    HeatmapSection              `json:"heatmaps"`
	Breakdowns  BreakdownSection            `json:"breakdowns"`
	Screener    []aggregate.SymbolAggregate `json:"screener"`
	Watchlist   []aggregate.WatchSeries     `json:"watchlist,omitempty"`
	Regime      *regime.Analysis            `json:"regime"`
	Timings     map[string]time.Duration    `json:"timings_ns"`
}

// RiskSection groups the distribution, concentration and sector tables
type RiskSection struct {
	Tail          risk.TailRisk      `json:"tail"`
	SharpeLike    float64            `json:"sharpe_like"`
	Concentration risk.Concentration `json:"concentration"`
	Sectors       []risk.SectorRisk  `json:"sectors"`
}

// HeatmapSection holds the sector and weekday heatmaps
type HeatmapSection struct {
	Sector    aggregate.Heatmap `json:"sector"`
	DayOfWeek aggregate.Heatmap `json:"day_of_week"`
}

// BreakdownSection holds the categorical breakdowns
type BreakdownSection struct {
	AssetType []aggregate.Breakdown       `json:"asset_type"`
	Leverage  []aggregate.Breakdown       `json:"leverage"`
	SizeTiers []aggregate.Breakdown       `json:"size_tiers"`
	Quadrants []aggregate.QuadrantSummary `json:"quadrants"`
}

// Build computes every section over view. The view must be non-empty and
// hold at least opts.K observations.
func Build(ctx context.Context, view []domain.Observation, meta domain.Metadata, opts Options) (*Report, error) {
	logger := opts.logger()
	tracer := opts.tracer()

	if len(view) == 0 {
		return nil, apperrors.NewInvalidArgument("report view is empty")
	}
	if len(view) < opts.K {
		return nil, apperrors.NewInvalidArgument("view holds %d observations, fewer than k=%d", len(view), opts.K)
	}

	ctx, span := tracer.Start(ctx, "report.build", trace.WithAttributes(
		attribute.Int("observations", len(view)),
		attribute.String("mode", opts.Mode.String()),
	))
	defer span.End()

	start := time.Now()
	r := &Report{
		RunID:        uuid.New().String(),
		GeneratedAt:  start.UTC(),
		Mode:         opts.Mode.String(),
		Observations: len(view),
		Symbols:      len(domain.Symbols(view)),
		DateRange:    meta.DateRange,
		Timings:      make(map[string]time.Duration, len(Sections())),
	}

	logger.InfoContext(ctx, "building report",
		"run_id", r.RunID,
		"observations", r.Observations,
		"symbols", r.Symbols,
		"mode", r.Mode,
	)

	b := &builder{view: view, meta: meta, opts: opts, report: r}
	sections := map[string]func(context.Context) error{
		SectionClusters:    b.clusters,
		SectionRisk:        b.risk,
		SectionCorrelation: b.correlation,
		SectionHeatmaps:    b.heatmaps,
		SectionBreakdowns:  b.breakdowns,
		SectionScreener:    b.screener,
		SectionWatchlist:   b.watchlist,
		SectionRegime:      b.regime,
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range Sections() {
		fn := sections[name]
		g.Go(func() error {
			d, err := runSection(gctx, tracer, name, fn)
			mu.Lock()
			r.Timings[name] = d
			mu.Unlock()
			if opts.Recorder != nil {
				opts.Recorder.ObserveSection(name, d, err)
			}
			if err != nil {
				return fmt.Errorf("section %s: %w", name, err)
			}
			logger.DebugContext(gctx, "section complete", "section", name, "duration", d)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "report build failed", "run_id", r.RunID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "report built",
		"run_id", r.RunID,
		"sections", len(r.Timings),
		"duration", time.Since(start),
	)
	return r, nil
}

// runSection runs fn inside its own span and reports its duration
func runSection(ctx context.Context, tracer trace.Tracer, name string, fn func(context.Context) error) (time.Duration, error) {
	ctx, span := tracer.Start(ctx, "report."+name, trace.WithAttributes(attribute.String("section", name)))
	defer span.End()

	start := time.Now()
	err := ctx.Err()
	if err == nil {
		err = fn(ctx)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return time.Since(start), err
}

// builder holds the shared inputs of one build. Each section method writes
// a distinct field of report.
type builder struct {
	view   []domain.Observation
	meta   domain.Metadata
	opts   Options
	report *Report
}

func (b *builder) capturedAlpha() []float64 {
	ca := make([]float64, len(b.view))
	for i, o := range b.view {
		ca[i] = o.CapturedAlphaFor(b.opts.Mode)
	}
	return ca
}

func (b *builder) clusters(ctx context.Context) error {
	engine := clustering.NewEngine(rand.New(rand.NewSource(b.opts.Seed)), b.opts.logger())
	engine.SetMaxIterations(b.opts.MaxIterations)

	analysis, err := engine.Cluster(ctx, b.view, b.opts.Features, b.opts.K, b.opts.Mode)
	if err != nil {
		return err
	}
	b.report.Clusters = analysis
	return nil
}

func (b *builder) risk(context.Context) error {
	ca := b.capturedAlpha()
	tail, err := risk.Summarize(ca, b.opts.Confidence)
	if err != nil {
		return err
	}

	notional := make([]float64, len(b.view))
	for i, o := range b.view {
		notional[i] = o.Notional
	}
	sectors, err := risk.SectorTable(b.view, b.opts.Mode, b.opts.SectorMinObs)
	if err != nil {
		return err
	}

	b.report.Risk = RiskSection{
		Tail:          tail,
		SharpeLike:    risk.SharpeLike(ca),
		Concentration: risk.Measure(notional),
		Sectors:       sectors,
	}
	return nil
}

func (b *builder) correlation(context.Context) error {
	m, err := correlation.Compute(b.view, b.opts.Mode)
	if err != nil {
		return err
	}
	b.report.Correlation = m
	return nil
}

func (b *builder) heatmaps(context.Context) error {
	b.report.Heatmaps = HeatmapSection{
		Sector:    aggregate.SectorHeatmap(b.view, b.opts.Mode, b.opts.TopSectors),
		DayOfWeek: aggregate.DayOfWeekHeatmap(b.view, b.opts.Mode),
	}
	return nil
}

func (b *builder) breakdowns(context.Context) error {
	b.report.Breakdowns = BreakdownSection{
		AssetType: aggregate.ByAssetTypeBreakdown(b.view, b.opts.Mode),
		Leverage:  aggregate.LeverageBreakdown(b.view, b.opts.Mode),
		SizeTiers: aggregate.SizeTierBreakdown(b.view, b.opts.Mode),
		Quadrants: aggregate.QuadrantBreakdown(b.view, b.opts.Mode),
	}
	return nil
}

func (b *builder) screener(context.Context) error {
	rows, err := aggregate.Screen(b.view, b.opts.Mode, b.opts.Screener)
	if err != nil {
		return err
	}
	b.report.Screener = rows
	return nil
}

func (b *builder) watchlist(context.Context) error {
	if len(b.opts.Watchlist) == 0 {
		return nil
	}
	b.report.Watchlist = aggregate.Watchlist(b.view, b.opts.Watchlist, b.opts.Mode)
	return nil
}

func (b *builder) regime(context.Context) error {
	var series regime.DailySeries
	if len(b.meta.DailySummary) > 0 {
		// calendar days missing from the summary are zero-filled
		dates := b.meta.Dates
		if len(dates) == 0 {
			dates = slices.Collect(maps.Keys(b.meta.DailySummary))
		}
		series = regime.SeriesFromSummary(dates, b.meta.DailySummary)
	} else {
		series = regime.SeriesFromObservations(b.view, b.opts.Mode)
	}

	analysis, err := regime.Analyze(series, b.opts.RegimeWindow)
	if err != nil {
		return err
	}
	b.report.Regime = analysis
	return nil
}
