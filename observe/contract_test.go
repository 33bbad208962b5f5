package observe

import (
	"context"
	"errors"
	"testing"
	"time"
)

// Every disabled subsystem must still hand out usable components.
func TestObserver_DisabledSubsystemsAreUsable(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{
		ServiceName: "healthd",
		Tracing:     TracingConfig{Exporter: "none"},
		Metrics:     MetricsConfig{Exporter: "none"},
		Logging:     LoggingConfig{Level: "info"},
	})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}

	ctx, span := obs.Tracer().Start(context.Background(), "health.check.liveness.noop")
	span.End()

	if _, err := NewMetrics(obs.Meter()); err != nil {
		t.Fatalf("NewMetrics(noop meter) error = %v", err)
	}
	obs.Logger().WithProbe(ProbeMeta{ID: "noop"}).Info(ctx, "discarded")

	if err := obs.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

func TestNoopComponents_DoNotPanic(t *testing.T) {
	ctx := context.Background()
	meta := ProbeMeta{ID: "noop", Kind: "readiness"}

	if NewNoopLogger().WithProbe(meta) == nil {
		t.Fatal("WithProbe returned nil")
	}

	var metrics Metrics = &noopMetrics{}
	metrics.RecordCheck(ctx, meta, 10*time.Millisecond, false, errors.New("boom"))
	metrics.RecordReport(ctx, "all", true, 0)

	tracer := newNoopTracer()
	_, span := tracer.StartSpan(ctx, meta)
	tracer.EndSpan(span, false, nil)
}

func TestNoopMiddleware_PassesResultThrough(t *testing.T) {
	errProbe := errors.New("probe failed")
	mw := NewNoopMiddleware()

	up, err := mw.Wrap(func(context.Context, ProbeMeta) (bool, error) {
		return false, errProbe
	})(context.Background(), ProbeMeta{ID: "noop"})
	if up || !errors.Is(err, errProbe) {
		t.Fatalf("Wrap() = %v, %v; want false, %v", up, err, errProbe)
	}
	mw.RecordReport(context.Background(), "all", false, 1)
}
