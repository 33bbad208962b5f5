package health

import (
	"context"
	"encoding/json"
	"net/http"
)

// KindReporter produces a report for a requested kind.
type KindReporter interface {
	Report(ctx context.Context, kind Kind) (Report, error)
}

// HealthHandler returns an HTTP handler reporting every probe.
func HealthHandler(rep KindReporter) http.HandlerFunc {
	return NewHandler(rep, KindAll)
}

// LivenessHandler returns an HTTP handler for liveness probes.
func LivenessHandler(rep KindReporter) http.HandlerFunc {
	return NewHandler(rep, KindLiveness)
}

// ReadinessHandler returns an HTTP handler for readiness probes.
func ReadinessHandler(rep KindReporter) http.HandlerFunc {
	return NewHandler(rep, KindReadiness)
}

// StartupHandler returns an HTTP handler for startup probes.
func StartupHandler(rep KindReporter) http.HandlerFunc {
	return NewHandler(rep, KindStartup)
}

// NewHandler returns an HTTP handler that writes the report for kind in
// its wire form: 200 when UP, 503 when DOWN, 500 for an unknown kind.
// The request context bounds the probes.
func NewHandler(rep KindReporter, kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := rep.Report(r.Context(), kind)

		w.Header().Set("Content-Type", "application/json")

		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": err.Error(),
			})
			return
		}

		if report.IsDown() {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		_ = json.NewEncoder(w).Encode(report)
	}
}
