package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/config"
)

// InstrumentationName identifies spans produced by this module
const InstrumentationName = "github.com/ejcacciatore/sapinover-overnight-dashboard"

// Tracing holds the tracer provider for one process run
type Tracing struct {
	Provider *sdktrace.TracerProvider // nil when tracing is disabled
	Tracer   trace.Tracer
}

// InitializeTracing installs a global tracer provider exporting spans to w
// as JSON. When tracing is disabled or the exporter is "none", a no-op
// tracer is returned and the global provider is left untouched.
func InitializeTracing(ctx context.Context, cfg config.TelemetryConfig, version string, w io.Writer, logger *slog.Logger) (*Tracing, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.EnableTracing || cfg.TraceExporter == "none" {
		return &Tracing{Tracer: noop.NewTracerProvider().Tracer(InstrumentationName)}, nil
	}

	var exporter sdktrace.SpanExporter
	var err error
	switch cfg.TraceExporter {
	case "stdout", "":
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(w))
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(version),
		attribute.String("service.instance.id", GenerateTraceID()),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logger.InfoContext(ctx, "tracing initialized",
		slog.String("exporter", cfg.TraceExporter),
		slog.String("service", cfg.ServiceName),
	)

	return &Tracing{
		Provider: tp,
		Tracer:   tp.Tracer(InstrumentationName, trace.WithInstrumentationVersion(version)),
	}, nil
}

// Shutdown flushes pending spans
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t == nil || t.Provider == nil {
		return nil
	}
	if err := t.Provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown tracer provider: %w", err)
	}
	return nil
}

// TraceIDFromContext returns the OpenTelemetry trace ID of the span in ctx
func TraceIDFromContext(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
