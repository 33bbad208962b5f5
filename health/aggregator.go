package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/healthops/observe"
	"github.com/jonwraymond/healthops/resilience"
)

// DefaultProbeTimeout is the per-probe budget used when none is configured.
const DefaultProbeTimeout = 5 * time.Second

// AggregatorConfig configures the health aggregator.
type AggregatorConfig struct {
	// Timeout is the maximum time a single probe may run.
	// Default: 5 seconds
	Timeout time.Duration

	// MaxConcurrency caps the number of probes running at once within a
	// single Run. Zero or negative means one goroutine per probe.
	// Default: 0
	MaxConcurrency int
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithMiddleware instruments every probe execution and report.
func WithMiddleware(mw *observe.Middleware) AggregatorOption {
	return func(a *Aggregator) {
		if mw != nil {
			a.mw = mw
		}
	}
}

// Aggregator runs the enabled probes of a registry and combines their
// results into a Report.
type Aggregator struct {
	registry *Registry
	config   AggregatorConfig
	mw       *observe.Middleware
}

// NewAggregator creates an aggregator over reg.
func NewAggregator(reg *Registry, config AggregatorConfig, opts ...AggregatorOption) *Aggregator {
	if config.Timeout <= 0 {
		config.Timeout = DefaultProbeTimeout
	}

	a := &Aggregator{
		registry: reg,
		config:   config,
		mw:       observe.NewNoopMiddleware(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config returns the aggregator configuration.
func (a *Aggregator) Config() AggregatorConfig {
	return a.config
}

// Run executes the enabled probes of kind concurrently and returns their
// aggregate report.
//
// The registry is read once, so probes registered or disabled while Run
// is in flight do not appear partially. Checks are ordered by
// registration regardless of completion order. Probe failures, panics
// and timeouts become DOWN results; only an invalid kind is returned as
// an error.
func (a *Aggregator) Run(ctx context.Context, kind Kind) (Report, error) {
	probes, err := a.registry.Enabled(kind)
	if err != nil {
		return Report{}, err
	}

	results := make([]Result, len(probes))

	var g errgroup.Group
	if a.config.MaxConcurrency > 0 {
		g.SetLimit(a.config.MaxConcurrency)
	}
	for i, p := range probes {
		g.Go(func() error {
			results[i] = a.runProbe(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	report := NewReport(results...)
	a.mw.RecordReport(ctx, kind.String(), !report.IsDown(), report.Len())
	return report, nil
}

// runProbe executes one probe through the observability middleware.
func (a *Aggregator) runProbe(ctx context.Context, p Probe) Result {
	meta := observe.ProbeMeta{
		ID:   p.ID,
		Name: p.name(),
		Kind: p.Kind.String(),
	}

	var result Result
	exec := a.mw.Wrap(func(ctx context.Context, _ observe.ProbeMeta) (bool, error) {
		r, err := a.execute(ctx, p)
		result = r
		return !r.IsDown(), err
	})
	_, _ = exec(ctx, meta)
	return result
}

// execute runs the checker under the probe's budget. The returned error
// is the failure cause of a DOWN result, nil when the checker itself
// produced the result.
func (a *Aggregator) execute(ctx context.Context, p Probe) (Result, error) {
	budget := p.Timeout
	if budget <= 0 {
		budget = a.config.Timeout
	}
	name := p.name()

	done := make(chan Result, 1)
	err := resilience.ExecuteWithTimeout(ctx, budget, func(ctx context.Context) error {
		r, err := invoke(ctx, p.Checker)
		if err != nil {
			return err
		}
		done <- r
		return nil
	})

	switch {
	case err == nil:
		return normalize(<-done, name), nil

	case ctx.Err() != nil:
		// The caller gave up before the probe finished.
		return Down(name).WithData(DataKeyError, ctx.Err().Error()), ctx.Err()

	case errors.Is(err, resilience.ErrTimeout):
		return Down(name).WithDetails(map[string]any{
			DataKeyError:   ErrProbeTimeout.Error(),
			DataKeyTimeout: budget.String(),
		}), fmt.Errorf("%w after %s", ErrProbeTimeout, budget)

	default:
		err = fmt.Errorf("%w: %v", ErrProbeExecution, err)
		return Down(name).WithData(DataKeyError, err.Error()), err
	}
}

// invoke calls the checker, converting a panic into an error.
func invoke(ctx context.Context, c Checker) (r Result, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("panic: %v", v)
		}
	}()
	return c.Check(ctx)
}

// normalize fills in a missing name and forces unknown statuses to DOWN.
func normalize(r Result, name string) Result {
	if r.name == "" {
		r.name = name
	}
	if !r.status.Valid() {
		r = r.WithData(DataKeyError, fmt.Sprintf("invalid status %q", r.status))
		r.status = StatusDown
	}
	return r
}
