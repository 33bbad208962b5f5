package health

import (
	"context"
	"testing"
)

func TestStartupGate(t *testing.T) {
	gate := NewStartupGate("init")
	if gate.Name() != "init" || gate.Started() {
		t.Fatalf("new gate = %q/%v", gate.Name(), gate.Started())
	}

	r, err := gate.Check(context.Background())
	if err != nil || !r.IsDown() {
		t.Errorf("closed gate Check() = %+v, %v", r, err)
	}

	gate.MarkStarted()
	gate.MarkStarted()

	r, _ = gate.Check(context.Background())
	if r.IsDown() {
		t.Error("open gate should be UP")
	}
	if v, _ := r.Value("started"); v != true {
		t.Errorf("started = %v", v)
	}
}

func TestStartupGate_AsStartupProbe(t *testing.T) {
	gate := NewStartupGate("init")
	reg := NewRegistry()
	mustRegister(t, reg, Probe{ID: "init", Kind: KindStartup, Checker: gate})
	rep := newTestReporter(reg)

	if !rep.Startup(context.Background()).IsDown() {
		t.Error("Startup() should be DOWN before MarkStarted")
	}
	gate.MarkStarted()
	if rep.Startup(context.Background()).IsDown() {
		t.Error("Startup() should be UP after MarkStarted")
	}
}
