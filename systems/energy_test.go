package systems

import (
	"math"
	"testing"

	"github.com/emberworks/ember/components"
	"github.com/emberworks/ember/config"
	"github.com/emberworks/ember/events"
)

// signalCounter subscribes to every reservoir signal and counts fires.
type signalCounter struct {
	changed, low, depleted, full int
	last                         events.Payload
}

func newSignalCounter(bus *events.Bus) *signalCounter {
	c := &signalCounter{}
	bus.Subscribe(events.EnergyChanged, func(p events.Payload) { c.changed++; c.last = p })
	bus.Subscribe(events.EnergyLow, func(p events.Payload) { c.low++ })
	bus.Subscribe(events.EnergyDepleted, func(p events.Payload) { c.depleted++ })
	bus.Subscribe(events.EnergyFull, func(p events.Payload) { c.full++ })
	return c
}

func TestAddEnergyPublishesChangeAndFull(t *testing.T) {
	bus := events.NewBus()
	c := newSignalCounter(bus)
	r := newTestReservoir(90)

	stored := AddEnergy(bus, r, 20, "conversion")
	if math.Abs(stored-10) > epsilon {
		t.Fatalf("stored = %v, want 10", stored)
	}
	if c.changed != 1 || c.full != 1 {
		t.Errorf("changed=%d full=%d, want 1/1", c.changed, c.full)
	}
	if c.low != 0 || c.depleted != 0 {
		t.Errorf("low=%d depleted=%d, want 0/0", c.low, c.depleted)
	}
	if c.last.Reason != "conversion" || c.last.Entity != 1 {
		t.Errorf("payload = %+v", c.last)
	}
}

func TestRemoveEnergyPublishesSingleCategory(t *testing.T) {
	bus := events.NewBus()
	c := newSignalCounter(bus)
	r := newTestReservoir(50)

	// Down to 9 of 100: critical, not depleted, not full.
	if !RemoveEnergy(bus, r, 41, "movement") {
		t.Fatal("remove failed")
	}
	if c.changed != 1 || c.low != 1 {
		t.Errorf("changed=%d low=%d, want 1/1", c.changed, c.low)
	}
	if c.depleted != 0 || c.full != 0 {
		t.Errorf("depleted=%d full=%d, want 0/0", c.depleted, c.full)
	}
}

func TestDepletionBeatsCritical(t *testing.T) {
	bus := events.NewBus()
	c := newSignalCounter(bus)
	r := newTestReservoir(50)

	// Straight to zero: depleted fires, critical does not.
	RemoveEnergy(bus, r, 50, "drain")
	if c.depleted != 1 {
		t.Errorf("depleted = %d, want 1", c.depleted)
	}
	if c.low != 0 {
		t.Errorf("low = %d, want 0 (one category per mutation)", c.low)
	}
}

func TestFailedRemoveDoesNotNotify(t *testing.T) {
	bus := events.NewBus()
	c := newSignalCounter(bus)
	r := newTestReservoir(10)

	if RemoveEnergy(bus, r, 50, "movement") {
		t.Fatal("remove should fail")
	}
	if c.changed != 0 {
		t.Errorf("changed = %d, want 0 (no mutation, no signal)", c.changed)
	}
}

func TestZeroRemoveDoesNotNotify(t *testing.T) {
	bus := events.NewBus()
	c := newSignalCounter(bus)
	r := newTestReservoir(10)

	if !RemoveEnergy(bus, r, 0, "movement") {
		t.Fatal("zero remove should succeed")
	}
	if c.changed != 0 {
		t.Errorf("changed = %d, want 0", c.changed)
	}
}

func TestDrainEnergyNotifiesActualAmount(t *testing.T) {
	bus := events.NewBus()
	c := newSignalCounter(bus)
	r := newTestReservoir(5)

	taken := DrainEnergy(bus, r, 100, "parasite")
	if math.Abs(taken-5) > epsilon {
		t.Fatalf("taken = %v, want 5", taken)
	}
	if c.last.Delta != -5 {
		t.Errorf("payload delta = %v, want -5", c.last.Delta)
	}
	if c.depleted != 1 {
		t.Errorf("depleted = %d, want 1", c.depleted)
	}
}

func TestTransferEnergyNotifiesBothSides(t *testing.T) {
	bus := events.NewBus()
	fired := map[string]int{}
	bus.Subscribe(events.EnergyChanged, func(p events.Payload) { fired[p.Reason]++ })

	from := components.NewReservoir(1, 80, 100, 1.0, 0.3, 0.1)
	to := components.NewReservoir(2, 10, 100, 1.0, 0.3, 0.1)

	stored := TransferEnergy(bus, &from, &to, 30)
	if math.Abs(stored-30) > epsilon {
		t.Fatalf("stored = %v, want 30", stored)
	}
	if fired["transfer_out"] != 1 || fired["transfer_in"] != 1 {
		t.Errorf("fired = %v, want one transfer_out and one transfer_in", fired)
	}
}

func TestZoneBonusPicksLargestOverlap(t *testing.T) {
	z := NewZoneBonus([]config.ZoneConfig{
		{X: 0, Z: 0, Radius: 10, Bonus: 0.1},
		{X: 2, Z: 0, Radius: 10, Bonus: 0.3},
		{X: 100, Z: 100, Radius: 5, Bonus: 0.9},
	})

	if got := z.MiningBonusAt(components.Position{X: 1, Z: 0}); got != 0.3 {
		t.Errorf("bonus = %v, want 0.3 (largest overlapping zone)", got)
	}
	if got := z.MiningBonusAt(components.Position{X: 50, Z: 50}); got != 0 {
		t.Errorf("bonus outside zones = %v, want 0", got)
	}
	// Boundary is inclusive.
	if got := z.MiningBonusAt(components.Position{X: -10, Z: 0}); got != 0.1 {
		t.Errorf("bonus on boundary = %v, want 0.1", got)
	}
}
