package components

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestNewReservoirClamps(t *testing.T) {
	tests := []struct {
		name         string
		initial      float64
		capacity     float64
		efficiency   float64
		wantCurrent  float64
		wantCapacity float64
		wantEff      float64
	}{
		{"normal", 50, 100, 1.0, 50, 100, 1.0},
		{"initial above capacity", 150, 100, 1.0, 100, 100, 1.0},
		{"negative initial", -10, 100, 1.0, 0, 100, 1.0},
		{"negative capacity", 10, -5, 1.0, 0, 0, 1.0},
		{"efficiency above one", 50, 100, 1.5, 50, 100, 1.0},
		{"negative efficiency", 50, 100, -0.2, 50, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReservoir(1, tt.initial, tt.capacity, tt.efficiency, 0.3, 0.1)
			if math.Abs(r.Current-tt.wantCurrent) > epsilon {
				t.Errorf("Current = %v, want %v", r.Current, tt.wantCurrent)
			}
			if math.Abs(r.Capacity-tt.wantCapacity) > epsilon {
				t.Errorf("Capacity = %v, want %v", r.Capacity, tt.wantCapacity)
			}
			if math.Abs(r.Efficiency-tt.wantEff) > epsilon {
				t.Errorf("Efficiency = %v, want %v", r.Efficiency, tt.wantEff)
			}
		})
	}
}

func TestAddClampsToCapacity(t *testing.T) {
	r := NewReservoir(1, 90, 100, 1.0, 0.3, 0.1)

	stored, ev := r.Add(50)
	if math.Abs(stored-10) > epsilon {
		t.Errorf("stored = %v, want 10", stored)
	}
	if r.Current != 100 {
		t.Errorf("Current = %v, want 100", r.Current)
	}
	if ev != ThresholdFull {
		t.Errorf("event = %v, want ThresholdFull", ev)
	}

	// A full reservoir accepts nothing more.
	stored, ev = r.Add(1)
	if stored != 0 {
		t.Errorf("stored into full reservoir = %v, want 0", stored)
	}
	if ev != ThresholdNone {
		t.Errorf("event on rejected add = %v, want ThresholdNone", ev)
	}
}

func TestAddAppliesEfficiency(t *testing.T) {
	r := NewReservoir(1, 0, 100, 0.8, 0.3, 0.1)

	stored, _ := r.Add(50)
	if math.Abs(stored-40) > epsilon {
		t.Errorf("stored = %v, want 40 (50 × 0.8)", stored)
	}
	if math.Abs(r.Current-40) > epsilon {
		t.Errorf("Current = %v, want 40", r.Current)
	}
}

func TestAddRejectsNonFinite(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -5, 0} {
		r := NewReservoir(1, 50, 100, 1.0, 0.3, 0.1)
		stored, _ := r.Add(bad)
		if stored != 0 || r.Current != 50 {
			t.Errorf("Add(%v): stored=%v current=%v, want no mutation", bad, stored, r.Current)
		}
	}
}

func TestRemoveZeroIsSuccessfulNoop(t *testing.T) {
	r := NewReservoir(1, 50, 100, 1.0, 0.3, 0.1)
	ok, ev := r.Remove(0)
	if !ok {
		t.Error("Remove(0) should succeed")
	}
	if ev != ThresholdNone {
		t.Errorf("event = %v, want ThresholdNone", ev)
	}
	if r.Current != 50 {
		t.Errorf("Current = %v, want 50", r.Current)
	}
}

func TestRemoveInsufficientNoMutation(t *testing.T) {
	r := NewReservoir(1, 30, 100, 1.0, 0.3, 0.1)
	ok, _ := r.Remove(30.001)
	if ok {
		t.Error("Remove beyond current should fail")
	}
	if r.Current != 30 {
		t.Errorf("Current = %v, want 30 (unchanged)", r.Current)
	}
}

func TestRemoveRejectsNegativeAndNonFinite(t *testing.T) {
	for _, bad := range []float64{-1, math.NaN(), math.Inf(1)} {
		r := NewReservoir(1, 50, 100, 1.0, 0.3, 0.1)
		ok, _ := r.Remove(bad)
		if ok || r.Current != 50 {
			t.Errorf("Remove(%v): ok=%v current=%v, want failure with no mutation", bad, ok, r.Current)
		}
	}
}

func TestDrainCapsAtCurrent(t *testing.T) {
	r := NewReservoir(1, 25, 100, 1.0, 0.3, 0.1)
	removed, ev := r.Drain(100)
	if math.Abs(removed-25) > epsilon {
		t.Errorf("removed = %v, want 25", removed)
	}
	if r.Current != 0 {
		t.Errorf("Current = %v, want 0", r.Current)
	}
	if ev != ThresholdDepleted {
		t.Errorf("event = %v, want ThresholdDepleted", ev)
	}

	// Draining an empty reservoir yields zero.
	removed, _ = r.Drain(10)
	if removed != 0 {
		t.Errorf("drain of empty = %v, want 0", removed)
	}
}

func TestRefundBypassesEfficiency(t *testing.T) {
	r := NewReservoir(1, 50, 100, 0.5, 0.3, 0.1)

	// Round trip: remove then refund restores exactly.
	r.Remove(20)
	returned, _ := r.Refund(20)
	if math.Abs(returned-20) > epsilon {
		t.Errorf("returned = %v, want 20", returned)
	}
	if math.Abs(r.Current-50) > epsilon {
		t.Errorf("Current = %v, want 50 after round trip", r.Current)
	}
}

func TestThresholdPriority(t *testing.T) {
	// Capacity 100, critical at 10. A reservoir at exactly 0 is both
	// below critical and empty; only depleted may fire.
	r := NewReservoir(1, 5, 100, 1.0, 0.3, 0.1)
	_, ev := r.Drain(5)
	if ev != ThresholdDepleted {
		t.Errorf("event = %v, want ThresholdDepleted (priority over critical)", ev)
	}

	// Zero capacity: full and depleted coincide; depleted wins.
	z := NewReservoir(2, 0, 0, 1.0, 0.3, 0.1)
	if got := z.evaluate(); got != ThresholdDepleted {
		t.Errorf("zero-capacity event = %v, want ThresholdDepleted", got)
	}
}

func TestThresholdCritical(t *testing.T) {
	r := NewReservoir(1, 50, 100, 1.0, 0.3, 0.1)
	ok, ev := r.Remove(41)
	if !ok {
		t.Fatal("Remove failed")
	}
	if ev != ThresholdCritical {
		t.Errorf("event at 9/100 = %v, want ThresholdCritical", ev)
	}
}

func TestTransferToRefundsShortfall(t *testing.T) {
	src := NewReservoir(1, 80, 100, 1.0, 0.3, 0.1)
	dst := NewReservoir(2, 95, 100, 1.0, 0.3, 0.1)

	stored, _, dstEv := src.TransferTo(&dst, 50)
	if math.Abs(stored-5) > epsilon {
		t.Errorf("stored = %v, want 5 (dst room)", stored)
	}
	if dstEv != ThresholdFull {
		t.Errorf("dst event = %v, want ThresholdFull", dstEv)
	}
	// 45 of the 50 debited came back to the source.
	if math.Abs(src.Current-75) > epsilon {
		t.Errorf("src Current = %v, want 75", src.Current)
	}

	total := src.Current + dst.Current
	if math.Abs(total-175) > epsilon {
		t.Errorf("total energy = %v, want 175 (conserved)", total)
	}
}

func TestTransferToLossyTarget(t *testing.T) {
	src := NewReservoir(1, 80, 100, 1.0, 0.3, 0.1)
	dst := NewReservoir(2, 0, 100, 0.5, 0.3, 0.1)

	stored, _, _ := src.TransferTo(&dst, 40)
	if math.Abs(stored-20) > epsilon {
		t.Errorf("stored = %v, want 20 (40 × 0.5)", stored)
	}
	// Efficiency loss is intentional: source gives up the full 40.
	if math.Abs(src.Current-40) > epsilon {
		t.Errorf("src Current = %v, want 40", src.Current)
	}
}

func TestSetCapacityShrinkClampsCurrent(t *testing.T) {
	r := NewReservoir(1, 80, 100, 1.0, 0.3, 0.1)
	if !r.SetCapacity(60) {
		t.Fatal("SetCapacity(60) rejected")
	}
	if r.Current != 60 {
		t.Errorf("Current = %v, want 60 after shrink", r.Current)
	}
	if r.SetCapacity(-1) {
		t.Error("negative capacity should be rejected")
	}
}

func TestSetEfficiencyBounds(t *testing.T) {
	r := NewReservoir(1, 0, 100, 1.0, 0.3, 0.1)
	if r.SetEfficiency(1.5) {
		t.Error("efficiency above 1 should be rejected")
	}
	if r.SetEfficiency(-0.1) {
		t.Error("negative efficiency should be rejected")
	}
	if !r.SetEfficiency(0.75) {
		t.Error("valid efficiency rejected")
	}
	if r.Efficiency != 0.75 {
		t.Errorf("Efficiency = %v, want 0.75", r.Efficiency)
	}
}

func TestInvariantHoldsUnderMixedOps(t *testing.T) {
	r := NewReservoir(1, 50, 100, 0.9, 0.3, 0.1)
	ops := []func(){
		func() { r.Add(37.5) },
		func() { r.Remove(12.25) },
		func() { r.Drain(200) },
		func() { r.Add(1000) },
		func() { r.Refund(3) },
		func() { r.Remove(0) },
		func() { r.Add(-5) },
		func() { r.SetCapacity(42) },
		func() { r.Add(80) },
	}
	for i, op := range ops {
		op()
		if r.Current < 0 || r.Current > r.Capacity {
			t.Fatalf("op %d broke invariant: current=%v capacity=%v", i, r.Current, r.Capacity)
		}
	}
}

func TestPercentageAndPredicates(t *testing.T) {
	r := NewReservoir(1, 25, 100, 1.0, 0.3, 0.1)
	if math.Abs(r.Percentage()-0.25) > epsilon {
		t.Errorf("Percentage = %v, want 0.25", r.Percentage())
	}
	if !r.IsLow() {
		t.Error("25/100 with low threshold 0.3 should be low")
	}
	if r.IsEmpty() || r.IsFull() {
		t.Error("unexpected empty/full")
	}

	z := Reservoir{}
	if z.Percentage() != 0 {
		t.Errorf("zero-capacity Percentage = %v, want 0", z.Percentage())
	}
}
