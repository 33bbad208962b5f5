package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	zapobserver "go.uber.org/zap/zaptest/observer"
)

type middlewareHarness struct {
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	logs   *zapobserver.ObservedLogs
	mw     *Middleware
}

func newMiddlewareHarness(t *testing.T) *middlewareHarness {
	t.Helper()
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	core, logs := zapobserver.New(zapcore.DebugLevel)
	mw := NewMiddleware(NewTracer(tp.Tracer("test")), metrics, NewZapLogger(zap.New(core)))
	return &middlewareHarness{spans: spans, reader: reader, logs: logs, mw: mw}
}

func (h *middlewareHarness) collect(t *testing.T) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := h.reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	return rm
}

func TestMiddleware_Outcomes(t *testing.T) {
	tests := []struct {
		name      string
		up        bool
		err       error
		wantLevel zapcore.Level
		wantMsg   string
		wantCode  codes.Code
	}{
		{"up", true, nil, zapcore.DebugLevel, "health probe completed", codes.Ok},
		{"down", false, nil, zapcore.WarnLevel, "health probe reported DOWN", codes.Error},
		{"failed", false, errors.New("dial tcp: refused"), zapcore.ErrorLevel, "health probe failed", codes.Error},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newMiddlewareHarness(t)
			meta := ProbeMeta{ID: "db", Name: "database", Kind: "readiness"}

			up, err := h.mw.Wrap(func(context.Context, ProbeMeta) (bool, error) {
				return tc.up, tc.err
			})(context.Background(), meta)

			if up != tc.up || !errors.Is(err, tc.err) {
				t.Fatalf("Wrap() = %v, %v; want %v, %v", up, err, tc.up, tc.err)
			}

			spans := h.spans.Ended()
			if len(spans) != 1 {
				t.Fatalf("expected 1 span, got %d", len(spans))
			}
			if spans[0].Name() != "health.check.readiness.db" {
				t.Errorf("span name = %q", spans[0].Name())
			}
			if spans[0].Status().Code != tc.wantCode {
				t.Errorf("span status = %v, want %v", spans[0].Status().Code, tc.wantCode)
			}

			if findMetric(h.collect(t), "health.check.total") == nil {
				t.Error("health.check.total not recorded")
			}

			entries := h.logs.All()
			if len(entries) != 1 {
				t.Fatalf("expected 1 log entry, got %d", len(entries))
			}
			if entries[0].Level != tc.wantLevel || entries[0].Message != tc.wantMsg {
				t.Errorf("log = %v %q, want %v %q", entries[0].Level, entries[0].Message, tc.wantLevel, tc.wantMsg)
			}
			fields := entries[0].ContextMap()
			if fields["probe.id"] != "db" {
				t.Errorf("probe.id = %v", fields["probe.id"])
			}
			if tc.err != nil && fields["error"] != tc.err.Error() {
				t.Errorf("error field = %v", fields["error"])
			}
		})
	}
}

// TestMiddleware_PropagatesContext verifies the wrapped func runs inside the span.
func TestMiddleware_PropagatesContext(t *testing.T) {
	h := newMiddlewareHarness(t)

	var inner trace.SpanContext
	_, _ = h.mw.Wrap(func(ctx context.Context, _ ProbeMeta) (bool, error) {
		inner = trace.SpanContextFromContext(ctx)
		return true, nil
	})(context.Background(), ProbeMeta{ID: "p"})

	spans := h.spans.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if inner.SpanID() != spans[0].SpanContext().SpanID() {
		t.Error("wrapped function should observe the probe span in its context")
	}
}

// TestMiddleware_MeasuresDuration verifies the histogram sees the probe time.
func TestMiddleware_MeasuresDuration(t *testing.T) {
	h := newMiddlewareHarness(t)

	_, _ = h.mw.Wrap(func(context.Context, ProbeMeta) (bool, error) {
		time.Sleep(20 * time.Millisecond)
		return true, nil
	})(context.Background(), ProbeMeta{ID: "slow"})

	found := findMetric(h.collect(t), "health.check.duration_ms")
	if found == nil {
		t.Fatal("health.check.duration_ms not recorded")
	}
	hist := found.Data.(metricdata.Histogram[float64])
	if hist.DataPoints[0].Sum < 20 {
		t.Errorf("duration = %vms, want >= 20", hist.DataPoints[0].Sum)
	}
}

func TestMiddleware_RecordReport(t *testing.T) {
	h := newMiddlewareHarness(t)
	h.mw.RecordReport(context.Background(), "liveness", true, 2)

	if findMetric(h.collect(t), "health.report.total") == nil {
		t.Error("health.report.total not recorded")
	}
	entries := h.logs.FilterMessage("health report computed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 report log, got %d", len(entries))
	}
	if entries[0].ContextMap()["status"] != "UP" {
		t.Errorf("status = %v, want UP", entries[0].ContextMap()["status"])
	}
}

func TestMiddlewareFromObserver(t *testing.T) {
	if _, err := MiddlewareFromObserver(nil); !errors.Is(err, ErrNilObserver) {
		t.Fatalf("MiddlewareFromObserver(nil) = %v, want ErrNilObserver", err)
	}

	obs, err := NewObserver(context.Background(), Config{ServiceName: "mw"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		t.Fatalf("MiddlewareFromObserver() error = %v", err)
	}
	up, err := mw.Wrap(func(context.Context, ProbeMeta) (bool, error) {
		return true, nil
	})(context.Background(), ProbeMeta{ID: "p"})
	if !up || err != nil {
		t.Fatalf("Wrap() = %v, %v", up, err)
	}
}
