package components

import (
	"math"
	"testing"
)

func TestActionKindString(t *testing.T) {
	tests := []struct {
		kind ActionKind
		want string
	}{
		{ActionNone, "idle"},
		{ActionMove, "movement"},
		{ActionMine, "mining"},
		{ActionBuild, "construction"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestActionActiveAndClear(t *testing.T) {
	a := Action{}
	if a.Active() {
		t.Error("zero action should be idle")
	}
	a.Kind = ActionMine
	a.ReservedEnergy = 12
	a.Mine = MineState{DepositID: 3, Extracted: 4.5}
	if !a.Active() {
		t.Error("mining action should be active")
	}

	a.Clear()
	if a.Active() || a.ReservedEnergy != 0 || a.Mine.DepositID != 0 {
		t.Errorf("Clear left residue: %+v", a)
	}
}

func TestActionProgressOnlyForConstruction(t *testing.T) {
	a := Action{Kind: ActionMove}
	if a.Progress() != 0 {
		t.Errorf("movement Progress = %v, want 0", a.Progress())
	}
	a = Action{Kind: ActionBuild, Build: BuildState{Progress: 0.5}}
	if a.Progress() != 0.5 {
		t.Errorf("build Progress = %v, want 0.5", a.Progress())
	}
}

func TestPositionDistanceIgnoresHeight(t *testing.T) {
	a := Position{X: 0, Y: 100, Z: 0}
	b := Position{X: 3, Y: -50, Z: 4}
	if d := a.DistanceTo(b); math.Abs(d-5) > 1e-12 {
		t.Errorf("DistanceTo = %v, want 5 (XZ plane only)", d)
	}
}
