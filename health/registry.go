package health

import (
	"fmt"
	"path"
	"strings"
	"sync"
)

// Registry holds probes in registration order.
//
// Contract:
//   - Concurrency: all methods are safe for concurrent use, including
//     alongside in-flight aggregator runs.
//   - Ids are unique across kinds. Disabling is reversible, removal is not.
type Registry struct {
	mu       sync.RWMutex
	entries  []*entry
	byID     map[string]*entry
	disabled []string
}

type entry struct {
	probe    Probe
	disabled bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithDisabled sets the configured disabled list. Probes matching any
// entry start disabled when they are registered.
func WithDisabled(idsOrPatterns ...string) RegistryOption {
	return func(r *Registry) {
		r.disabled = normalizeIDs(idsOrPatterns)
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		byID: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a probe. It fails with ErrDuplicateProbe if the id is
// already present, leaving the existing probe untouched.
func (r *Registry) Register(p Probe) error {
	if err := p.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateProbe, p.ID)
	}

	e := &entry{probe: p, disabled: matchesAny(r.disabled, p.ID)}
	r.entries = append(r.entries, e)
	r.byID[p.ID] = e
	return nil
}

// Remove deletes a probe. It reports whether the id was registered.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)

	for i, cur := range r.entries {
		if cur == e {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}
	return true
}

// Disable excludes every probe whose id matches idOrPattern from reports.
// Patterns use path.Match syntax, so wildcards never cross a '/': "*"
// does not match "db/primary" but "db/*" does. It returns the number of
// probes matched; an unknown id matches nothing and is not an error.
func (r *Registry) Disable(idOrPattern string) int {
	return r.setDisabled(idOrPattern, true)
}

// Enable reverses Disable for every probe whose id matches idOrPattern.
// Re-enabled probes keep their original registration position.
func (r *Registry) Enable(idOrPattern string) int {
	return r.setDisabled(idOrPattern, false)
}

func (r *Registry) setDisabled(idOrPattern string, disabled bool) int {
	idOrPattern = strings.TrimSpace(idOrPattern)
	if idOrPattern == "" {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, e := range r.entries {
		if match(idOrPattern, e.probe.ID) {
			e.disabled = disabled
			n++
		}
	}
	return n
}

// SetDisabled replaces the configured disabled list. Every registered
// probe is re-evaluated against the new list: matching probes are
// disabled, all others enabled. Later registrations honor the list too.
func (r *Registry) SetDisabled(idsOrPatterns []string) {
	list := normalizeIDs(idsOrPatterns)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.disabled = list
	for _, e := range r.entries {
		e.disabled = matchesAny(list, e.probe.ID)
	}
}

// IsDisabled reports whether a registered probe is disabled.
func (r *Registry) IsDisabled(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	return ok && e.disabled
}

// Enabled returns a snapshot of the enabled probes of kind in
// registration order. KindAll selects every kind.
func (r *Registry) Enabled(kind Kind) ([]Probe, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	probes := make([]Probe, 0, len(r.entries))
	for _, e := range r.entries {
		if e.disabled {
			continue
		}
		if kind != KindAll && e.probe.Kind != kind {
			continue
		}
		probes = append(probes, e.probe)
	}
	return probes, nil
}

// IDs returns the ids of all registered probes in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.entries))
	for i, e := range r.entries {
		ids[i] = e.probe.ID
	}
	return ids
}

// Len returns the number of registered probes, enabled or not.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// match treats a malformed pattern as a literal id.
func match(pattern, id string) bool {
	if pattern == id {
		return true
	}
	ok, err := path.Match(pattern, id)
	return err == nil && ok
}

func matchesAny(patterns []string, id string) bool {
	for _, p := range patterns {
		if match(p, id) {
			return true
		}
	}
	return false
}

func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
