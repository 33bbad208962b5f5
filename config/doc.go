// Package config loads healthd configuration.
//
// Configuration is read from YAML. ${VAR} and ${VAR:-default} references
// are expanded from the environment before parsing, and a small set of
// HEALTH_* variables override the parsed values:
//
//	HEALTH_DISABLED_CHECKS   comma separated probe ids or patterns
//	HEALTH_PROBE_TIMEOUT     per-probe budget, e.g. "2s"
//	HEALTH_MAX_CONCURRENCY   probes run at once per query, 0 for unlimited
//	HEALTH_LISTEN_ADDR       HTTP listen address
//	HEALTH_LOG_LEVEL         debug|info|warn|error
//
// A Watcher reloads the file on change so the disabled list can be edited
// without a restart.
package config
