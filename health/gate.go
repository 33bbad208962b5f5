package health

import (
	"context"
	"sync/atomic"
)

// StartupGate is a checker that stays DOWN until MarkStarted is called.
// Register it as a startup probe and mark it once initialization is done.
type StartupGate struct {
	name    string
	started atomic.Bool
}

// NewStartupGate creates a closed gate.
func NewStartupGate(name string) *StartupGate {
	return &StartupGate{name: name}
}

// MarkStarted opens the gate. It is safe to call more than once.
func (g *StartupGate) MarkStarted() {
	g.started.Store(true)
}

// Started reports whether the gate is open.
func (g *StartupGate) Started() bool {
	return g.started.Load()
}

// Name returns the name of this checker.
func (g *StartupGate) Name() string {
	return g.name
}

// Check reports UP once the gate is open.
func (g *StartupGate) Check(context.Context) (Result, error) {
	if g.started.Load() {
		return Up(g.name).WithData("started", true), nil
	}
	return Down(g.name).WithData("started", false), nil
}
