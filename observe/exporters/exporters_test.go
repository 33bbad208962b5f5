package exporters

import (
	"bytes"
	"context"
	"errors"
	"testing"

	promclient "github.com/prometheus/client_golang/prometheus"
)

func TestNewTracingExporter(t *testing.T) {
	tests := []struct {
		name     string
		exporter string
		opts     Options
		env      map[string]string
		wantErr  error
	}{
		{name: "stdout", exporter: "stdout", opts: Options{Writer: &bytes.Buffer{}}},
		{name: "none", exporter: "none"},
		{name: "empty", exporter: ""},
		{name: "unknown", exporter: "zipkin", wantErr: ErrUnknownExporter},
		{
			name:     "otlp missing endpoint",
			exporter: "otlp",
			env:      map[string]string{"OTEL_EXPORTER_OTLP_ENDPOINT": "", "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT": ""},
			wantErr:  ErrEndpointNotConfigured,
		},
		{
			name:     "otlp env endpoint",
			exporter: "otlp",
			env:      map[string]string{"OTEL_EXPORTER_OTLP_ENDPOINT": "http://localhost:4317"},
		},
		{
			name:     "otlp explicit endpoint",
			exporter: "otlp",
			opts:     Options{Endpoint: "localhost:4317", Insecure: true},
			env:      map[string]string{"OTEL_EXPORTER_OTLP_ENDPOINT": "", "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT": ""},
		},
		{
			name:     "jaeger missing endpoint",
			exporter: "jaeger",
			env:      map[string]string{"OTEL_EXPORTER_JAEGER_ENDPOINT": ""},
			wantErr:  ErrEndpointNotConfigured,
		},
		{
			name:     "jaeger env endpoint",
			exporter: "jaeger",
			env:      map[string]string{"OTEL_EXPORTER_JAEGER_ENDPOINT": "http://localhost:4317"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			exp, err := NewTracingExporter(context.Background(), tc.exporter, tc.opts)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if exp == nil {
				t.Fatal("expected non-nil exporter")
			}
			_ = exp.Shutdown(context.Background())
		})
	}
}

func TestNewMetricsReader(t *testing.T) {
	tests := []struct {
		name     string
		exporter string
		opts     Options
		env      map[string]string
		wantErr  error
	}{
		{name: "stdout", exporter: "stdout", opts: Options{Writer: &bytes.Buffer{}}},
		{name: "none", exporter: "none"},
		{name: "prometheus", exporter: "prometheus", opts: Options{Registerer: promclient.NewRegistry()}},
		{name: "unknown", exporter: "badvalue", wantErr: ErrUnknownExporter},
		{
			name:     "otlp missing endpoint",
			exporter: "otlp",
			env:      map[string]string{"OTEL_EXPORTER_OTLP_ENDPOINT": "", "OTEL_EXPORTER_OTLP_METRICS_ENDPOINT": ""},
			wantErr:  ErrEndpointNotConfigured,
		},
		{
			name:     "otlp explicit endpoint",
			exporter: "otlp",
			opts:     Options{Endpoint: "localhost:4317", Insecure: true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			reader, err := NewMetricsReader(context.Background(), tc.exporter, tc.opts)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if reader == nil {
				t.Fatal("expected non-nil reader")
			}
		})
	}
}
