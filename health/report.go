package health

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Report is the aggregate outcome of a set of probes.
//
// A Report is immutable. Its status is a pure function of its checks:
// DOWN if any check is DOWN, UP otherwise, including when there are no
// checks at all. The zero Report is an empty UP report.
type Report struct {
	down   bool
	checks []Result
}

// NewReport creates a report over checks, preserving their order.
func NewReport(checks ...Result) Report {
	r := Report{checks: slices.Clone(checks)}
	for _, c := range r.checks {
		if c.IsDown() {
			r.down = true
			break
		}
	}
	return r
}

// Status returns the aggregate status.
func (r Report) Status() Status {
	if r.down {
		return StatusDown
	}
	return StatusUp
}

// IsDown reports whether any check is DOWN.
func (r Report) IsDown() bool {
	return r.down
}

// Checks returns a copy of the checks in report order.
func (r Report) Checks() []Result {
	return slices.Clone(r.checks)
}

// Len returns the number of checks.
func (r Report) Len() int {
	return len(r.checks)
}

// Check returns the first check with the given name.
func (r Report) Check(name string) (Result, bool) {
	for _, c := range r.checks {
		if c.name == name {
			return c, true
		}
	}
	return Result{}, false
}

type wireReport struct {
	Status Status   `json:"status"`
	Checks []Result `json:"checks"`
}

// MarshalJSON encodes the report as {"status", "checks"}. An empty
// report encodes its checks as [] rather than null.
func (r Report) MarshalJSON() ([]byte, error) {
	checks := r.checks
	if checks == nil {
		checks = []Result{}
	}
	return json.Marshal(wireReport{Status: r.Status(), Checks: checks})
}

// UnmarshalJSON decodes the wire form of a report. The status is derived
// from the decoded checks; a payload declaring a different status is
// rejected with ErrMalformedReport.
func (r *Report) UnmarshalJSON(b []byte) error {
	var w wireReport
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	decoded := NewReport(w.Checks...)
	if w.Status != decoded.Status() {
		return fmt.Errorf("%w: status %q does not match checks (%s)", ErrMalformedReport, w.Status, decoded.Status())
	}

	*r = decoded
	return nil
}
