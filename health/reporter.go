package health

import "context"

// HealthReporter exposes the aggregate health of an application.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Each call is an independent snapshot; no state carries over.
//   - A failing probe yields a DOWN report, never an error or panic.
type HealthReporter interface {
	// Health reports every enabled probe.
	Health(ctx context.Context) Report

	// Liveness reports only liveness probes.
	Liveness(ctx context.Context) Report

	// Readiness reports only readiness probes.
	Readiness(ctx context.Context) Report

	// Startup reports only startup probes.
	Startup(ctx context.Context) Report
}

// Reporter is the HealthReporter backed by an Aggregator.
type Reporter struct {
	agg *Aggregator
}

// NewReporter creates a reporter over agg.
func NewReporter(agg *Aggregator) *Reporter {
	return &Reporter{agg: agg}
}

// Report runs the probes of kind. It fails only with ErrUnknownKind.
func (r *Reporter) Report(ctx context.Context, kind Kind) (Report, error) {
	return r.agg.Run(ctx, kind)
}

// Health reports every enabled probe.
func (r *Reporter) Health(ctx context.Context) Report {
	return r.run(ctx, KindAll)
}

// Liveness reports only liveness probes.
func (r *Reporter) Liveness(ctx context.Context) Report {
	return r.run(ctx, KindLiveness)
}

// Readiness reports only readiness probes.
func (r *Reporter) Readiness(ctx context.Context) Report {
	return r.run(ctx, KindReadiness)
}

// Startup reports only startup probes.
func (r *Reporter) Startup(ctx context.Context) Report {
	return r.run(ctx, KindStartup)
}

// run queries a kind known to be valid.
func (r *Reporter) run(ctx context.Context, kind Kind) Report {
	report, _ := r.agg.Run(ctx, kind)
	return report
}

var _ HealthReporter = (*Reporter)(nil)
