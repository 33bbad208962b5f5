package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jonwraymond/healthops/health"
	"github.com/jonwraymond/healthops/observe"
)

// Config is the complete healthd configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Server  ServerConfig  `yaml:"server"`
	Health  HealthConfig  `yaml:"health"`
	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServiceConfig identifies the service in telemetry.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	ListenAddr        string   `yaml:"listenAddr"`
	ReadHeaderTimeout Duration `yaml:"readHeaderTimeout"`
	ShutdownTimeout   Duration `yaml:"shutdownTimeout"`
}

// HealthConfig configures probe execution.
type HealthConfig struct {
	// ProbeTimeout is the per-probe budget.
	ProbeTimeout Duration `yaml:"probeTimeout"`

	// MaxConcurrency caps probes running at once per query. 0 is unlimited.
	MaxConcurrency int `yaml:"maxConcurrency"`

	// DisabledChecks lists probe ids or patterns excluded from reports.
	DisabledChecks IDList `yaml:"disabledChecks"`

	// MemoryThreshold is the heap usage fraction at which the built-in
	// liveness probe reports DOWN.
	MemoryThreshold float64 `yaml:"memoryThreshold"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Output     string `yaml:"output"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Compress   bool   `yaml:"compress"`
}

// TracingConfig configures span export.
type TracingConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Exporter  string  `yaml:"exporter"`
	SamplePct float64 `yaml:"samplePct"`
	Endpoint  string  `yaml:"endpoint"`
	Insecure  bool    `yaml:"insecure"`
}

// MetricsConfig configures metric export.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
	Endpoint string `yaml:"endpoint"`
	Insecure bool   `yaml:"insecure"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{Name: "healthd"},
		Server: ServerConfig{
			ListenAddr:        ":8080",
			ReadHeaderTimeout: Duration(5 * time.Second),
			ShutdownTimeout:   Duration(10 * time.Second),
		},
		Health: HealthConfig{
			ProbeTimeout:    Duration(health.DefaultProbeTimeout),
			MemoryThreshold: 0.9,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
		},
		Tracing: TracingConfig{
			Exporter:  "none",
			SamplePct: 1.0,
		},
		Metrics: MetricsConfig{
			Enabled:  true,
			Exporter: "prometheus",
		},
	}
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Server.ListenAddr == "" {
		invalid("server.listenAddr is required")
	}
	if c.Server.ShutdownTimeout < 0 {
		invalid("server.shutdownTimeout must not be negative")
	}
	if c.Health.ProbeTimeout <= 0 {
		invalid("health.probeTimeout must be positive, got %s", c.Health.ProbeTimeout)
	}
	if c.Health.MaxConcurrency < 0 {
		invalid("health.maxConcurrency must not be negative, got %d", c.Health.MaxConcurrency)
	}
	if c.Health.MemoryThreshold <= 0 || c.Health.MemoryThreshold >= 1 {
		invalid("health.memoryThreshold must be between 0 and 1, got %v", c.Health.MemoryThreshold)
	}

	obsCfg := c.ObserveConfig()
	if err := obsCfg.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}

	return errors.Join(errs...)
}

// ApplyEnv overrides values from HEALTH_* environment variables.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("HEALTH_DISABLED_CHECKS"); ok {
		c.Health.DisabledChecks = ParseIDList(v)
	}
	if v, ok := lookup("HEALTH_PROBE_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: HEALTH_PROBE_TIMEOUT: %w", ErrInvalidEnv, err)
		}
		c.Health.ProbeTimeout = Duration(d)
	}
	if v, ok := lookup("HEALTH_MAX_CONCURRENCY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: HEALTH_MAX_CONCURRENCY: %w", ErrInvalidEnv, err)
		}
		c.Health.MaxConcurrency = n
	}
	if v, ok := lookup("HEALTH_LISTEN_ADDR"); ok {
		c.Server.ListenAddr = v
	}
	if v, ok := lookup("HEALTH_LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	return nil
}

// ObserveConfig converts the telemetry sections for observe.NewObserver.
func (c *Config) ObserveConfig() observe.Config {
	return observe.Config{
		ServiceName: c.Service.Name,
		Version:     c.Service.Version,
		Tracing: observe.TracingConfig{
			Enabled:   c.Tracing.Enabled,
			Exporter:  c.Tracing.Exporter,
			SamplePct: c.Tracing.SamplePct,
			Endpoint:  c.Tracing.Endpoint,
			Insecure:  c.Tracing.Insecure,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.Metrics.Enabled,
			Exporter: c.Metrics.Exporter,
			Endpoint: c.Metrics.Endpoint,
			Insecure: c.Metrics.Insecure,
		},
		Logging: observe.LoggingConfig{
			Enabled:    true,
			Level:      c.Logging.Level,
			Output:     c.Logging.Output,
			MaxSizeMB:  c.Logging.MaxSizeMB,
			MaxBackups: c.Logging.MaxBackups,
			MaxAgeDays: c.Logging.MaxAgeDays,
			Compress:   c.Logging.Compress,
		},
	}
}

// AggregatorConfig converts the health section for health.NewAggregator.
func (c *Config) AggregatorConfig() health.AggregatorConfig {
	return health.AggregatorConfig{
		Timeout:        c.Health.ProbeTimeout.Duration(),
		MaxConcurrency: c.Health.MaxConcurrency,
	}
}
