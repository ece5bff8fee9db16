package systems

import (
	"github.com/emberworks/ember/components"
	"github.com/emberworks/ember/events"
	"github.com/emberworks/ember/ledger"
)

// EnergySource is the narrow contract the reservation protocol draws
// against: either an entity's bounded reservoir or, for entities
// without one, the global ledger.
type EnergySource interface {
	// Available reports whether the source currently holds amount.
	Available(amount float64) bool
	// Withdraw debits amount, tagged with the purpose. Returns false
	// with no mutation if the source cannot satisfy it.
	Withdraw(amount float64, purpose string) bool
	// Refund credits amount back, tagged with the reason.
	Refund(amount float64, reason string)
}

// ReservoirSource adapts a bounded reservoir to EnergySource.
type ReservoirSource struct {
	Bus *events.Bus
	R   *components.Reservoir
}

func (s ReservoirSource) Available(amount float64) bool { return s.R.HasEnergy(amount) }

func (s ReservoirSource) Withdraw(amount float64, purpose string) bool {
	return RemoveEnergy(s.Bus, s.R, amount, purpose)
}

func (s ReservoirSource) Refund(amount float64, reason string) {
	stored, ev := s.R.Refund(amount)
	if stored > 0 {
		publishThreshold(s.Bus, s.R, ev, stored, reason)
	}
}

// LedgerSource adapts the global ledger to EnergySource for entities
// that have no reservoir of their own.
type LedgerSource struct {
	L      *ledger.Ledger
	Entity uint32
}

func (s LedgerSource) Available(amount float64) bool { return s.L.CanConsumeEnergy(amount) }

func (s LedgerSource) Withdraw(amount float64, purpose string) bool {
	return s.L.ConsumeEnergy(s.Entity, amount, purpose)
}

func (s LedgerSource) Refund(amount float64, reason string) {
	s.L.GenerateEnergy(s.Entity, amount, reason)
}

// Reserve transitions an action from idle to reserved: the amount is
// immediately debited from the source and held on the action, removing
// it from circulation so no concurrent consumer can also claim it.
// Fails with no mutation if a reservation is already outstanding or the
// source cannot satisfy the amount right now. The Available gate runs
// before the debit is attempted, so a rejected reservation never
// reaches the source's audit trail.
func Reserve(a *components.Action, src EnergySource, amount float64) bool {
	if a.ReservedEnergy > 0 {
		return false
	}
	if amount <= 0 {
		return false
	}
	if !src.Available(amount) {
		return false
	}
	if !src.Withdraw(amount, "reserve_"+a.Kind.String()) {
		return false
	}
	a.ReservedEnergy = amount
	return true
}

// UseReserved debits amount from the held reservation only; it never
// touches the source. Failure indicates a reservation/usage accounting
// bug and the caller is expected to cancel the action.
func UseReserved(a *components.Action, amount float64) bool {
	if amount < 0 || amount > a.ReservedEnergy {
		return false
	}
	a.ReservedEnergy -= amount
	return true
}

// Release refunds the entire remaining reservation back to its source.
// Idempotent: releasing with nothing held is a no-op.
func Release(a *components.Action, src EnergySource) {
	if a.ReservedEnergy <= 0 {
		return
	}
	src.Refund(a.ReservedEnergy, "refund_"+a.Kind.String())
	a.ReservedEnergy = 0
}

// Dispose releases any outstanding reservation and clears the action
// record. Every disposal path runs Release first so no reservation is
// ever silently dropped.
func Dispose(a *components.Action, src EnergySource) {
	Release(a, src)
	a.Clear()
}
