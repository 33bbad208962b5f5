package health

import "errors"

var (
	// ErrDuplicateProbe indicates a probe id is already registered.
	ErrDuplicateProbe = errors.New("health: duplicate probe id")

	// ErrInvalidProbe indicates a probe is missing its id or checker, or has no concrete kind.
	ErrInvalidProbe = errors.New("health: invalid probe")

	// ErrUnknownKind indicates a query for a kind the registry does not know.
	ErrUnknownKind = errors.New("health: unknown probe kind")

	// ErrProbeExecution indicates a probe returned an error or panicked.
	ErrProbeExecution = errors.New("health: probe execution failed")

	// ErrProbeTimeout indicates a probe exceeded its time budget.
	ErrProbeTimeout = errors.New("health: probe timed out")

	// ErrMalformedReport indicates a wire payload is not a valid report.
	ErrMalformedReport = errors.New("health: malformed report")
)

// Data keys set by the aggregator on failed probes.
const (
	// DataKeyError holds the failure reason of a DOWN probe.
	DataKeyError = "error"

	// DataKeyTimeout holds the budget a timed out probe exceeded.
	DataKeyTimeout = "timeout"
)
