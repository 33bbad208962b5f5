// Package observe provides observability primitives for health probes.
//
// It is a pure instrumentation library: no probe execution, no transport,
// no I/O beyond exporter and log sink setup. The health package drives a
// Middleware around every probe invocation and every aggregated report.
//
// Spans are named health.check.<kind>.<id>. Metrics are published as
// health.check.total, health.check.down, health.check.errors,
// health.check.duration_ms, health.report.total and health.report.checks.
// Logs are JSON lines produced by zap.
package observe
