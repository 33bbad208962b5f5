// Command healthd serves liveness, readiness and startup reports over HTTP.
//
// Usage:
//
//	healthd [-config healthd.yaml]
//
// Without -config the defaults apply, overridden by HEALTH_* variables.
// With -config the file is watched and disabledChecks is re-applied on
// every change.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/healthops/config"
	"github.com/jonwraymond/healthops/health"
	"github.com/jonwraymond/healthops/observe"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "healthd: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg := config.Default()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// probes are the daemon's own checks.
type probes struct {
	gate *health.StartupGate
}

// registerProbes adds a heap liveness probe, a listener readiness probe
// and a startup gate.
func registerProbes(reg *health.Registry, cfg *config.Config, listenAddr string) (*probes, error) {
	gate := health.NewStartupGate("startup")

	dialer := &net.Dialer{}
	listener := health.NewPingChecker("listener", func(ctx context.Context) error {
		conn, err := dialer.DialContext(ctx, "tcp", listenAddr)
		if err != nil {
			return err
		}
		return conn.Close()
	})

	all := []health.Probe{
		{
			ID:   "heap-memory",
			Kind: health.KindLiveness,
			Checker: health.NewMemoryChecker(health.MemoryCheckerConfig{
				CriticalThreshold: cfg.Health.MemoryThreshold,
			}),
		},
		{ID: "listener", Kind: health.KindReadiness, Checker: listener},
		{ID: "startup", Kind: health.KindStartup, Checker: gate},
	}
	for _, p := range all {
		if err := reg.Register(p); err != nil {
			return nil, err
		}
	}
	return &probes{gate: gate}, nil
}

func run(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	obs, err := observe.NewObserver(ctx, cfg.ObserveConfig())
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	logger := obs.Logger()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "healthd: telemetry shutdown: %v\n", err)
		}
	}()

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Server.ListenAddr)
	if err != nil {
		return err
	}

	reg := health.NewRegistry(health.WithDisabled(cfg.Health.DisabledChecks...))
	own, err := registerProbes(reg, cfg, ln.Addr().String())
	if err != nil {
		_ = ln.Close()
		return err
	}

	rep := health.NewReporter(health.NewAggregator(reg, cfg.AggregatorConfig(), health.WithMiddleware(mw)))

	var metrics http.Handler
	if cfg.Metrics.Enabled && cfg.Metrics.Exporter == "prometheus" {
		metrics = promhttp.Handler()
	}

	if configPath != "" {
		watcher, err := config.NewWatcher(configPath, func(next *config.Config) {
			reg.SetDisabled(next.Health.DisabledChecks)
			logger.Info(ctx, "disabled checks updated",
				observe.Field{Key: "disabled", Value: next.Health.DisabledChecks.String()},
			)
		}, config.WithLogger(logger))
		if err != nil {
			_ = ln.Close()
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			_ = ln.Close()
			return err
		}
		defer func() { _ = watcher.Stop() }()
	}

	srv := &http.Server{
		Handler:           newRouter(rep, metrics),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout.Duration(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	own.gate.MarkStarted()
	logger.Info(ctx, "healthd listening",
		observe.Field{Key: "addr", Value: ln.Addr().String()},
		observe.Field{Key: "probes", Value: reg.Len()},
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "healthd shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	return nil
}
