package state

import (
	"testing"
)

func TestMachine_StartsInLobby(t *testing.T) {
	m := NewMachine()

	if m.Current() != Lobby {
		t.Errorf("Expected initial phase %v, got %v", Lobby, m.Current())
	}
	if !m.Is(Lobby) {
		t.Error("Is(Lobby) should be true for a fresh machine")
	}
}

func TestMachine_LegalFlow(t *testing.T) {
	m := NewMachine()

	steps := []Phase{AwaitingSubmissions, InProgress, Finished, Lobby}
	for _, next := range steps {
		if err := m.Transition(next); err != nil {
			t.Fatalf("Transition %v -> %v should be allowed, got: %v", m.Current(), next, err)
		}
		if m.Current() != next {
			t.Fatalf("Expected phase %v after transition, got %v", next, m.Current())
		}
	}
}

func TestMachine_RestartEdges(t *testing.T) {
	// AwaitingSubmissions -> Lobby
	m := NewMachine()
	m.Transition(AwaitingSubmissions)
	if err := m.Transition(Lobby); err != nil {
		t.Errorf("Restart from AwaitingSubmissions should be allowed, got: %v", err)
	}

	// InProgress -> Lobby
	m = NewMachine()
	m.Transition(AwaitingSubmissions)
	m.Transition(InProgress)
	if err := m.Transition(Lobby); err != nil {
		t.Errorf("Restart from InProgress should be allowed, got: %v", err)
	}
}

func TestMachine_IllegalTransitions(t *testing.T) {
	cases := []struct {
		name string
		path []Phase
		to   Phase
	}{
		{"lobby to in_progress", nil, InProgress},
		{"lobby to finished", nil, Finished},
		{"lobby to lobby", nil, Lobby},
		{"awaiting to finished", []Phase{AwaitingSubmissions}, Finished},
		{"in_progress to awaiting", []Phase{AwaitingSubmissions, InProgress}, AwaitingSubmissions},
		{"finished to in_progress", []Phase{AwaitingSubmissions, InProgress, Finished}, InProgress},
		{"finished to awaiting", []Phase{AwaitingSubmissions, InProgress, Finished}, AwaitingSubmissions},
	}

	for _, tc := range cases {
		m := NewMachine()
		for _, p := range tc.path {
			if err := m.Transition(p); err != nil {
				t.Fatalf("%s: setup transition to %v failed: %v", tc.name, p, err)
			}
		}
		before := m.Current()

		if err := m.Transition(tc.to); err != ErrTransitionNotAllowed {
			t.Errorf("%s: expected ErrTransitionNotAllowed, got: %v", tc.name, err)
		}
		if m.Current() != before {
			t.Errorf("%s: phase should remain %v after a blocked transition, got %v", tc.name, before, m.Current())
		}
	}
}

func TestPhase_String(t *testing.T) {
	cases := map[Phase]string{
		Lobby:               "lobby",
		AwaitingSubmissions: "awaiting_submissions",
		InProgress:          "in_progress",
		Finished:            "finished",
		Phase(99):           "unknown",
	}
	for phase, want := range cases {
		if got := phase.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(phase), got, want)
		}
	}
}
