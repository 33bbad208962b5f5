package observe

import (
	"context"
	"time"
)

// ExecuteFunc is the signature of a single probe invocation.
// up is the probe's reported status; err is non-nil only when the probe
// failed to produce a result (error, panic or timeout).
type ExecuteFunc func(ctx context.Context, probe ProbeMeta) (up bool, err error)

// Middleware wraps probe execution with observability (tracing, metrics, logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe ExecuteFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from wrapped function are recorded and propagated unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
// Nil components are replaced with no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = &noopMetrics{}
	}
	if logger == nil {
		logger = NewNoopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// NewNoopMiddleware returns a Middleware that records nothing.
func NewNoopMiddleware() *Middleware {
	return NewMiddleware(nil, nil, nil)
}

// Wrap wraps an ExecuteFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn ExecuteFunc) ExecuteFunc {
	return func(ctx context.Context, probe ProbeMeta) (bool, error) {
		ctx, span := m.tracer.StartSpan(ctx, probe)

		start := time.Now()
		up, err := fn(ctx, probe)
		duration := time.Since(start)

		m.tracer.EndSpan(span, up, err)
		m.metrics.RecordCheck(ctx, probe, duration, up, err)

		probeLogger := m.logger.WithProbe(probe)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
			{Key: "status", Value: statusLabel(up)},
		}

		switch {
		case err != nil:
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			probeLogger.Error(ctx, "health probe failed", fields...)
		case !up:
			probeLogger.Warn(ctx, "health probe reported DOWN", fields...)
		default:
			probeLogger.Debug(ctx, "health probe completed", fields...)
		}

		return up, err
	}
}

// RecordReport records an aggregated query outcome.
func (m *Middleware) RecordReport(ctx context.Context, kind string, up bool, checks int) {
	m.metrics.RecordReport(ctx, kind, up, checks)
	m.logger.Debug(ctx, "health report computed",
		Field{Key: "kind", Value: kind},
		Field{Key: "status", Value: statusLabel(up)},
		Field{Key: "checks", Value: checks},
	)
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
