// Package systems contains the per-variant action step functions and
// the economy helpers they share. Functions here mutate the components
// they are handed and publish notifications; orchestration across
// entities lives in the game package.
package systems

import (
	"github.com/emberworks/ember/components"
	"github.com/emberworks/ember/events"
)

// publishThreshold maps a reservoir threshold event onto the bus.
// Only the single category the mutation produced fires.
func publishThreshold(bus *events.Bus, r *components.Reservoir, ev components.ThresholdEvent, delta float64, reason string) {
	if bus == nil {
		return
	}
	p := events.Payload{Entity: r.Owner, Delta: delta, Current: r.Current, Reason: reason}
	bus.Publish(events.EnergyChanged, p)
	switch ev {
	case components.ThresholdDepleted:
		bus.Publish(events.EnergyDepleted, p)
	case components.ThresholdCritical:
		bus.Publish(events.EnergyLow, p)
	case components.ThresholdFull:
		bus.Publish(events.EnergyFull, p)
	}
}

// AddEnergy stores energy in the reservoir and notifies. Returns the
// amount actually stored.
func AddEnergy(bus *events.Bus, r *components.Reservoir, amount float64, source string) float64 {
	stored, ev := r.Add(amount)
	if stored > 0 {
		publishThreshold(bus, r, ev, stored, source)
	}
	return stored
}

// RemoveEnergy debits the reservoir and notifies. A zero request is a
// successful no-op; failures do not mutate or notify.
func RemoveEnergy(bus *events.Bus, r *components.Reservoir, amount float64, purpose string) bool {
	ok, ev := r.Remove(amount)
	if ok && amount > 0 {
		publishThreshold(bus, r, ev, -amount, purpose)
	}
	return ok
}

// DrainEnergy removes up to amount, capping at the current level, and
// returns what was taken. Used for external draining; never fails.
func DrainEnergy(bus *events.Bus, r *components.Reservoir, amount float64, reason string) float64 {
	removed, ev := r.Drain(amount)
	if removed > 0 {
		publishThreshold(bus, r, ev, -removed, reason)
	}
	return removed
}

// TransferEnergy moves energy between two reservoirs, refunding any
// capacity shortfall back to the source. Returns the amount stored by
// the target.
func TransferEnergy(bus *events.Bus, from, to *components.Reservoir, amount float64) float64 {
	stored, srcEv, dstEv := from.TransferTo(to, amount)
	if stored > 0 {
		publishThreshold(bus, from, srcEv, -stored, "transfer_out")
		publishThreshold(bus, to, dstEv, stored, "transfer_in")
	}
	return stored
}
