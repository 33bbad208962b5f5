package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// ProbeMeta identifies a health probe for telemetry purposes.
type ProbeMeta struct {
	ID   string // Registry id (required)
	Name string // Reported check name
	Kind string // liveness|readiness|startup
}

// SpanName returns the deterministic span name for this probe.
// Format: health.check.<kind>.<id> or health.check.<id>
func (m ProbeMeta) SpanName() string {
	if m.Kind != "" {
		return "health.check." + m.Kind + "." + m.ID
	}
	return "health.check." + m.ID
}

// Validate reports whether the metadata carries an id.
func (m ProbeMeta) Validate() error {
	if m.ID == "" {
		return ErrMissingProbeID
	}
	return nil
}

// Tracer wraps OpenTelemetry tracing with probe-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a probe invocation.
	StartSpan(ctx context.Context, meta ProbeMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording the outcome.
	EndSpan(span trace.Span, up bool, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with probe metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta ProbeMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("probe.id", meta.ID),
		attribute.String("probe.name", meta.Name),
	}
	if meta.Kind != "" {
		attrs = append(attrs, attribute.String("probe.kind", meta.Kind))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan sets the probe status and ends the span. A DOWN probe marks the
// span as failed even without an error.
func (t *tracerImpl) EndSpan(span trace.Span, up bool, err error) {
	span.SetAttributes(attribute.String("probe.status", statusLabel(up)))
	switch {
	case err != nil:
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	case !up:
		span.SetStatus(codes.Error, "probe reported DOWN")
	default:
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func statusLabel(up bool) string {
	if up {
		return "UP"
	}
	return "DOWN"
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta ProbeMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, up bool, err error) {
	span.End()
}
