package observe

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		ServiceName: "test-service",
		Version:     "1.0.0",
		Tracing: TracingConfig{
			Enabled:   true,
			Exporter:  "stdout",
			SamplePct: 1.0,
		},
		Metrics: MetricsConfig{
			Enabled:  true,
			Exporter: "stdout",
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing service name",
			mutate:  func(c *Config) { c.ServiceName = "" },
			wantErr: ErrMissingServiceName,
		},
		{
			name:    "unknown tracing exporter",
			mutate:  func(c *Config) { c.Tracing.Exporter = "zipkin" },
			wantErr: ErrInvalidTracingExporter,
		},
		{
			name:    "sample pct above range",
			mutate:  func(c *Config) { c.Tracing.SamplePct = 1.5 },
			wantErr: ErrInvalidSamplePct,
		},
		{
			name:    "sample pct negative",
			mutate:  func(c *Config) { c.Tracing.SamplePct = -0.1 },
			wantErr: ErrInvalidSamplePct,
		},
		{
			name:    "unknown metrics exporter",
			mutate:  func(c *Config) { c.Metrics.Exporter = "badvalue" },
			wantErr: ErrInvalidMetricsExporter,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: ErrInvalidLogLevel,
		},
		{
			name: "disabled sections are not validated",
			mutate: func(c *Config) {
				c.Tracing = TracingConfig{Exporter: "zipkin", SamplePct: 7}
				c.Metrics = MetricsConfig{Exporter: "badvalue"}
				c.Logging = LoggingConfig{Level: "verbose"}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewObserver_InvalidConfigReturnsError(t *testing.T) {
	_, err := NewObserver(context.Background(), Config{})
	if !errors.Is(err, ErrMissingServiceName) {
		t.Fatalf("NewObserver() error = %v, want ErrMissingServiceName", err)
	}
}

func TestNewObserver_DisabledNoop(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "noop"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	if _, ok := obs.Logger().(noopLogger); !ok {
		t.Errorf("expected noop logger when logging disabled, got %T", obs.Logger())
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewObserver_EnabledProviders(t *testing.T) {
	cfg := validConfig()
	cfg.Tracing.Exporter = "none"
	cfg.Metrics.Exporter = "none"
	cfg.Logging.Output = filepath.Join(t.TempDir(), "health.log")

	obs, err := NewObserver(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}

	ctx, span := obs.Tracer().Start(context.Background(), "probe")
	if !span.SpanContext().IsValid() {
		t.Error("expected a recording tracer when tracing is enabled")
	}
	span.End()

	if _, ok := obs.Logger().(*zapLogger); !ok {
		t.Errorf("expected zap logger, got %T", obs.Logger())
	}
	obs.Logger().Info(ctx, "observer ready")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := obs.Shutdown(shutdownCtx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewObserver_ExporterFailure(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

	cfg := validConfig()
	cfg.Tracing.Exporter = "otlp"
	if _, err := NewObserver(context.Background(), cfg); err == nil {
		t.Fatal("expected error when otlp endpoint is missing")
	}
}

func TestConfigValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Config{
		Tracing: TracingConfig{Enabled: true, Exporter: "zipkin", SamplePct: 2},
		Logging: LoggingConfig{Enabled: true, Level: "loud"},
	}
	err := cfg.Validate()
	for _, want := range []error{
		ErrMissingServiceName,
		ErrInvalidTracingExporter,
		ErrInvalidSamplePct,
		ErrInvalidLogLevel,
	} {
		if !errors.Is(err, want) {
			t.Errorf("Validate() = %v, missing %v", err, want)
		}
	}
}

func TestNewObserver_MetricsFailureReleasesTracing(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")

	cfg := validConfig()
	cfg.Tracing.Exporter = "none"
	cfg.Metrics.Exporter = "otlp"
	if _, err := NewObserver(context.Background(), cfg); err == nil {
		t.Fatal("expected error when otlp metrics endpoint is missing")
	}
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{1, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		if got := newSampler(tt.pct).Description(); got != tt.want {
			t.Errorf("newSampler(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}
