package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records probe and report metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCheck records a single probe invocation.
	RecordCheck(ctx context.Context, meta ProbeMeta, duration time.Duration, up bool, err error)

	// RecordReport records one aggregated query.
	RecordReport(ctx context.Context, kind string, up bool, checks int)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	checkTotal   metric.Int64Counter
	checkDown    metric.Int64Counter
	checkErrors  metric.Int64Counter
	durationHist metric.Float64Histogram
	reportTotal  metric.Int64Counter
	reportChecks metric.Int64Histogram
}

// NewMetrics creates the health instruments on the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	checkTotal, err := meter.Int64Counter(
		"health.check.total",
		metric.WithDescription("Total number of probe invocations"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	checkDown, err := meter.Int64Counter(
		"health.check.down",
		metric.WithDescription("Total number of probe invocations that reported DOWN"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	checkErrors, err := meter.Int64Counter(
		"health.check.errors",
		metric.WithDescription("Total number of probes that failed, panicked or timed out"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"health.check.duration_ms",
		metric.WithDescription("Probe duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	reportTotal, err := meter.Int64Counter(
		"health.report.total",
		metric.WithDescription("Total number of health queries"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return nil, err
	}

	reportChecks, err := meter.Int64Histogram(
		"health.report.checks",
		metric.WithDescription("Number of checks per health query"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		checkTotal:   checkTotal,
		checkDown:    checkDown,
		checkErrors:  checkErrors,
		durationHist: durationHist,
		reportTotal:  reportTotal,
		reportChecks: reportChecks,
	}, nil
}

// RecordCheck records metrics for one probe invocation.
func (m *metricsImpl) RecordCheck(ctx context.Context, meta ProbeMeta, duration time.Duration, up bool, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("probe.id", meta.ID),
		attribute.String("probe.name", meta.Name),
	}
	if meta.Kind != "" {
		attrs = append(attrs, attribute.String("probe.kind", meta.Kind))
	}
	opt := metric.WithAttributes(attrs...)

	m.checkTotal.Add(ctx, 1, opt)
	if !up {
		m.checkDown.Add(ctx, 1, opt)
	}
	if err != nil {
		m.checkErrors.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordReport records metrics for one aggregated query.
func (m *metricsImpl) RecordReport(ctx context.Context, kind string, up bool, checks int) {
	opt := metric.WithAttributes(
		attribute.String("health.kind", kind),
		attribute.String("health.status", statusLabel(up)),
	)
	m.reportTotal.Add(ctx, 1, opt)
	m.reportChecks.Record(ctx, int64(checks), opt)
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordCheck(ctx context.Context, meta ProbeMeta, duration time.Duration, up bool, err error) {
}

func (m *noopMetrics) RecordReport(ctx context.Context, kind string, up bool, checks int) {}
