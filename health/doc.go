// Package health provides liveness, readiness and startup health reporting.
//
// Applications register independent probes with a Registry. An Aggregator
// runs the enabled probes of a requested kind concurrently, each under its
// own time budget, and combines their results into an immutable Report.
// A Reporter exposes the four standard queries.
//
// # Core Concepts
//
// A Checker is any component that can report its health. A Probe binds a
// Checker to a registry id and a Kind (liveness, readiness or startup).
// Each Result is UP or DOWN with optional data; a Report is DOWN when any
// of its checks is DOWN and UP otherwise, including when it is empty.
//
// # Basic Usage
//
//	reg := health.NewRegistry()
//	_ = reg.Register(health.Probe{
//	    ID:      "database",
//	    Kind:    health.KindReadiness,
//	    Checker: health.NewPingChecker("database", db.PingContext),
//	})
//
//	agg := health.NewAggregator(reg, health.AggregatorConfig{Timeout: 2 * time.Second})
//	reporter := health.NewReporter(agg)
//
//	report := reporter.Readiness(ctx)
//	if report.IsDown() {
//	    log.Printf("not ready: %v", report.Checks())
//	}
//
// # Failure Handling
//
// A probe that returns an error, panics or exceeds its budget is reported
// DOWN with the reason under the "error" data key; it never fails the
// query and never blocks it beyond the budget.
//
// # Disabling Probes
//
// Probes can be excluded by id or path.Match pattern:
//
//	reg.Disable("database")
//	reg.SetDisabled([]string{"legacy.*"})
//
// # Wire Format
//
// Reports encode to JSON as:
//
//	{"status":"UP","checks":[{"name":"database","status":"UP","data":{...}}]}
//
// NewHandler and its kind-specific variants write that document over HTTP
// with status 200 for UP and 503 for DOWN.
package health
