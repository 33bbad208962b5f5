package config

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/jonwraymond/healthops/health"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Health.ProbeTimeout.Duration() != health.DefaultProbeTimeout {
		t.Errorf("probe timeout = %v", cfg.Health.ProbeTimeout)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen addr", func(c *Config) { c.Server.ListenAddr = "" }},
		{"negative shutdown", func(c *Config) { c.Server.ShutdownTimeout = Duration(-time.Second) }},
		{"zero probe timeout", func(c *Config) { c.Health.ProbeTimeout = 0 }},
		{"negative concurrency", func(c *Config) { c.Health.MaxConcurrency = -1 }},
		{"threshold too high", func(c *Config) { c.Health.MemoryThreshold = 1 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad exporter", func(c *Config) { c.Tracing.Enabled = true; c.Tracing.Exporter = "zipkin" }},
		{"missing service name", func(c *Config) { c.Service.Name = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfig_ValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Server.ListenAddr = ""
	cfg.Health.ProbeTimeout = 0

	err := cfg.Validate()
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) != 2 {
		t.Errorf("Validate() = %v, want two joined errors", err)
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	env := map[string]string{
		"HEALTH_DISABLED_CHECKS": "db, cache.* ,,",
		"HEALTH_PROBE_TIMEOUT":   "750ms",
		"HEALTH_MAX_CONCURRENCY": "4",
		"HEALTH_LISTEN_ADDR":     "127.0.0.1:9000",
		"HEALTH_LOG_LEVEL":       "debug",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.applyEnv(lookup); err != nil {
		t.Fatalf("applyEnv() error = %v", err)
	}

	if !slices.Equal(cfg.Health.DisabledChecks, IDList{"db", "cache.*"}) {
		t.Errorf("disabled = %v", cfg.Health.DisabledChecks)
	}
	if cfg.Health.ProbeTimeout.Duration() != 750*time.Millisecond {
		t.Errorf("probe timeout = %v", cfg.Health.ProbeTimeout)
	}
	if cfg.Health.MaxConcurrency != 4 {
		t.Errorf("max concurrency = %d", cfg.Health.MaxConcurrency)
	}
	if cfg.Server.ListenAddr != "127.0.0.1:9000" {
		t.Errorf("listen addr = %q", cfg.Server.ListenAddr)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestConfig_ApplyEnvInvalid(t *testing.T) {
	for _, key := range []string{"HEALTH_PROBE_TIMEOUT", "HEALTH_MAX_CONCURRENCY"} {
		cfg := Default()
		err := cfg.applyEnv(func(k string) (string, bool) {
			if k == key {
				return "soon", true
			}
			return "", false
		})
		if !errors.Is(err, ErrInvalidEnv) {
			t.Errorf("%s: applyEnv() = %v, want ErrInvalidEnv", key, err)
		}
	}
}

func TestConfig_Conversions(t *testing.T) {
	cfg := Default()
	cfg.Service.Version = "1.2.3"
	cfg.Health.MaxConcurrency = 3
	cfg.Logging.Output = "/var/log/healthd.log"

	agg := cfg.AggregatorConfig()
	if agg.Timeout != health.DefaultProbeTimeout || agg.MaxConcurrency != 3 {
		t.Errorf("AggregatorConfig() = %+v", agg)
	}

	obs := cfg.ObserveConfig()
	if obs.ServiceName != "healthd" || obs.Version != "1.2.3" {
		t.Errorf("service = %q %q", obs.ServiceName, obs.Version)
	}
	if !obs.Logging.Enabled || obs.Logging.Output != "/var/log/healthd.log" {
		t.Errorf("logging = %+v", obs.Logging)
	}
	if !obs.Metrics.Enabled || obs.Metrics.Exporter != "prometheus" {
		t.Errorf("metrics = %+v", obs.Metrics)
	}
}
