package engine_test

import (
	"testing"

	"audiomate/internal/engine"
)

func TestReadinessCeiling(t *testing.T) {
	tests := []struct {
		name      string
		ceiling   int
		attempts  int
		wantState engine.State
	}{
		{name: "under ceiling", ceiling: 3, attempts: 2, wantState: engine.StatePending},
		{name: "at ceiling", ceiling: 3, attempts: 3, wantState: engine.StateFailed},
		{name: "terminal after failure", ceiling: 3, attempts: 7, wantState: engine.StateFailed},
		{name: "zero ceiling allows one attempt", ceiling: 0, attempts: 1, wantState: engine.StateFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := engine.NewReadiness(tt.ceiling)
			for range tt.attempts {
				r.Attempt()
			}
			if r.State() != tt.wantState {
				t.Fatalf("state = %s, want %s", r.State(), tt.wantState)
			}
			if r.Attempts() > max(tt.ceiling, 1) {
				t.Fatalf("attempts = %d exceed ceiling %d", r.Attempts(), r.Ceiling())
			}
		})
	}
}

func TestReadinessMarkReadyIsTerminal(t *testing.T) {
	r := engine.NewReadiness(2)
	r.Attempt()
	r.MarkReady()
	if got := r.Attempt(); got != engine.StateReady {
		t.Fatalf("attempt after ready = %s", got)
	}
	if r.Attempts() != 1 {
		t.Fatalf("attempts = %d, want 1", r.Attempts())
	}

	failed := engine.NewReadiness(1)
	failed.Attempt()
	failed.MarkReady()
	if !failed.Failed() {
		t.Fatal("MarkReady should not revive a failed wait")
	}
}
