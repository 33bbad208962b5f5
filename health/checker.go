package health

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"time"
)

// Status represents the health status of a probe or an aggregate report.
type Status string

const (
	// StatusUp indicates the component is functioning normally.
	StatusUp Status = "UP"
	// StatusDown indicates the component is not functioning properly.
	StatusDown Status = "DOWN"
)

// String returns the wire representation of the status.
func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is UP or DOWN.
func (s Status) Valid() bool {
	return s == StatusUp || s == StatusDown
}

// Kind classifies a probe as liveness, readiness or startup.
// KindAll is only meaningful as a query selector.
type Kind int

const (
	// KindAll selects probes of every kind.
	KindAll Kind = iota
	// KindLiveness marks probes that tell whether the process should be restarted.
	KindLiveness
	// KindReadiness marks probes that tell whether the process can accept traffic.
	KindReadiness
	// KindStartup marks probes that tell whether the process finished starting.
	KindStartup
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindAll:
		return "all"
	case KindLiveness:
		return "liveness"
	case KindReadiness:
		return "readiness"
	case KindStartup:
		return "startup"
	default:
		return "unknown"
	}
}

// Valid reports whether k can be used to query a registry.
func (k Kind) Valid() bool {
	return k >= KindAll && k <= KindStartup
}

// concrete reports whether a probe can be registered with kind k.
func (k Kind) concrete() bool {
	return k >= KindLiveness && k <= KindStartup
}

// ParseKind parses the string form of a kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "all", "":
		return KindAll, nil
	case "liveness", "live":
		return KindLiveness, nil
	case "readiness", "ready":
		return KindReadiness, nil
	case "startup", "started":
		return KindStartup, nil
	default:
		return KindAll, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Result is the outcome of a single probe. It is immutable: every
// method returning a Result returns a modified copy.
type Result struct {
	name   string
	status Status
	data   map[string]any
}

// NewResult creates a result with a copy of data.
func NewResult(name string, status Status, data map[string]any) Result {
	return Result{
		name:   name,
		status: status,
		data:   maps.Clone(data),
	}
}

// Up creates an UP result.
func Up(name string) Result {
	return Result{name: name, status: StatusUp}
}

// Down creates a DOWN result.
func Down(name string) Result {
	return Result{name: name, status: StatusDown}
}

// Name returns the probe name. Names are unique within a kind only.
func (r Result) Name() string {
	return r.name
}

// Status returns the probe status.
func (r Result) Status() Status {
	return r.status
}

// IsDown reports whether the probe is DOWN.
func (r Result) IsDown() bool {
	return r.status != StatusUp
}

// Data returns a copy of the probe data, or nil if there is none.
func (r Result) Data() map[string]any {
	return maps.Clone(r.data)
}

// Value returns a single data entry.
func (r Result) Value(key string) (any, bool) {
	v, ok := r.data[key]
	return v, ok
}

// WithData returns a copy of r with key set to value.
func (r Result) WithData(key string, value any) Result {
	data := make(map[string]any, len(r.data)+1)
	maps.Copy(data, r.data)
	data[key] = value
	r.data = data
	return r
}

// WithDetails returns a copy of r with details merged into its data.
func (r Result) WithDetails(details map[string]any) Result {
	data := make(map[string]any, len(r.data)+len(details))
	maps.Copy(data, r.data)
	maps.Copy(data, details)
	r.data = data
	return r
}

type wireCheck struct {
	Name   string         `json:"name"`
	Status Status         `json:"status"`
	Data   map[string]any `json:"data,omitempty"`
}

// MarshalJSON encodes the result as {"name", "status", "data"}.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireCheck{Name: r.name, Status: r.status, Data: r.data})
}

// UnmarshalJSON decodes the wire form of a result.
func (r *Result) UnmarshalJSON(b []byte) error {
	var w wireCheck
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if !w.Status.Valid() {
		return fmt.Errorf("%w: check %q has status %q", ErrMalformedReport, w.Name, w.Status)
	}
	*r = Result{name: w.Name, status: w.Status, data: w.Data}
	return nil
}

// Checker is the interface for health checks.
//
// Contract:
//   - Concurrency: Check may be called concurrently from several reports.
//   - Context: Check should return promptly once ctx is done.
//   - Errors: a returned error marks the probe DOWN; it never fails the report.
type Checker interface {
	// Name returns the name reported for this checker.
	Name() string

	// Check performs the health check and returns the result.
	Check(ctx context.Context) (Result, error)
}

// CheckerFunc is an adapter to allow ordinary functions to be used as Checkers.
type CheckerFunc struct {
	name string
	fn   func(context.Context) (Result, error)
}

// NewCheckerFunc creates a new CheckerFunc.
func NewCheckerFunc(name string, fn func(context.Context) (Result, error)) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

// Name returns the name of this checker.
func (f *CheckerFunc) Name() string {
	return f.name
}

// Check performs the health check.
func (f *CheckerFunc) Check(ctx context.Context) (Result, error) {
	return f.fn(ctx)
}

// PingChecker reports UP when its ping function succeeds and DOWN with
// the error text otherwise.
type PingChecker struct {
	name string
	ping func(context.Context) error
}

// NewPingChecker creates a checker from a ping function such as
// (*sql.DB).PingContext.
func NewPingChecker(name string, ping func(context.Context) error) *PingChecker {
	return &PingChecker{name: name, ping: ping}
}

// Name returns the name of this checker.
func (p *PingChecker) Name() string {
	return p.name
}

// Check pings the component.
func (p *PingChecker) Check(ctx context.Context) (Result, error) {
	start := time.Now()
	if err := p.ping(ctx); err != nil {
		return Down(p.name).WithData(DataKeyError, err.Error()), nil
	}
	return Up(p.name).WithData("latency_ms", time.Since(start).Milliseconds()), nil
}

// Probe binds a checker to a registry identifier and a kind.
type Probe struct {
	// ID identifies the probe across the whole registry. It is the handle
	// used by Disable, Enable and Remove.
	ID string

	// Kind is the probe classification. KindAll is not accepted.
	Kind Kind

	// Checker performs the check.
	Checker Checker

	// Timeout overrides the aggregator's per-probe budget when positive.
	Timeout time.Duration
}

func (p Probe) validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidProbe)
	}
	if p.Checker == nil {
		return fmt.Errorf("%w: probe %q has no checker", ErrInvalidProbe, p.ID)
	}
	if !p.Kind.concrete() {
		return fmt.Errorf("%w: probe %q has kind %s", ErrInvalidProbe, p.ID, p.Kind)
	}
	return nil
}

// name returns the name reported for the probe's results.
func (p Probe) name() string {
	if n := p.Checker.Name(); n != "" {
		return n
	}
	return p.ID
}
