package components

import "math"

// ThresholdEvent classifies the state a reservoir mutation left it in.
// At most one category applies per mutation, evaluated in priority
// order: depleted, then critical, then full.
type ThresholdEvent uint8

const (
	ThresholdNone ThresholdEvent = iota
	ThresholdDepleted
	ThresholdCritical
	ThresholdFull
)

// Reservoir is a capacity-bounded energy store owned by one entity.
// Invariant: 0 <= Current <= Capacity after every operation.
type Reservoir struct {
	Owner             uint32
	Current           float64
	Capacity          float64
	Efficiency        float64 // fraction of added energy actually stored, in [0,1]
	LowThreshold      float64 // fraction of capacity
	CriticalThreshold float64 // fraction of capacity
}

// NewReservoir creates a reservoir with the given bounds. Initial is
// clamped into [0, capacity].
func NewReservoir(owner uint32, initial, capacity, efficiency, low, critical float64) Reservoir {
	if capacity < 0 {
		capacity = 0
	}
	if initial < 0 {
		initial = 0
	}
	if initial > capacity {
		initial = capacity
	}
	if efficiency < 0 {
		efficiency = 0
	} else if efficiency > 1 {
		efficiency = 1
	}
	return Reservoir{
		Owner:             owner,
		Current:           initial,
		Capacity:          capacity,
		Efficiency:        efficiency,
		LowThreshold:      low,
		CriticalThreshold: critical,
	}
}

// CanReceive reports whether the full amount fits without truncation.
func (r *Reservoir) CanReceive(amount float64) bool {
	return amount > 0 && r.Current+amount <= r.Capacity
}

// HasEnergy reports whether the reservoir holds at least amount.
// Non-positive requests are trivially satisfied (free actions).
func (r *Reservoir) HasEnergy(amount float64) bool {
	return amount <= 0 || r.Current >= amount
}

// Add stores amount×efficiency, clamped to the remaining capacity, and
// returns the amount actually stored along with the threshold state the
// mutation left the reservoir in. Non-finite or non-positive amounts
// store nothing.
func (r *Reservoir) Add(amount float64) (float64, ThresholdEvent) {
	if amount <= 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return 0, ThresholdNone
	}
	effective := amount * r.Efficiency
	room := r.Capacity - r.Current
	if effective > room {
		effective = room
	}
	if effective <= 0 {
		return 0, ThresholdNone
	}
	r.Current += effective
	return effective, r.evaluate()
}

// Refund returns previously withdrawn energy. Unlike Add it bypasses
// storage efficiency: the energy never left the economy, it was only
// held aside, so a reserve/release round trip restores the source
// exactly. Still clamps to capacity.
func (r *Reservoir) Refund(amount float64) (float64, ThresholdEvent) {
	if amount <= 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return 0, ThresholdNone
	}
	room := r.Capacity - r.Current
	if amount > room {
		amount = room
	}
	if amount <= 0 {
		return 0, ThresholdNone
	}
	r.Current += amount
	return amount, r.evaluate()
}

// Remove debits amount. A request for exactly 0 always succeeds as a
// no-op (several call sites model free actions that way); negative or
// non-finite amounts and insufficient energy fail with no mutation.
func (r *Reservoir) Remove(amount float64) (bool, ThresholdEvent) {
	if amount == 0 {
		return true, ThresholdNone
	}
	if amount < 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return false, ThresholdNone
	}
	if r.Current < amount {
		return false, ThresholdNone
	}
	r.Current -= amount
	return true, r.evaluate()
}

// Drain removes up to min(amount, current) and returns the amount
// actually removed. Unlike Remove it never fails, it just caps; used for
// external theft where the drainer takes whatever is there.
func (r *Reservoir) Drain(amount float64) (float64, ThresholdEvent) {
	if amount <= 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return 0, ThresholdNone
	}
	if amount > r.Current {
		amount = r.Current
	}
	if amount == 0 {
		return 0, ThresholdNone
	}
	r.Current -= amount
	return amount, r.evaluate()
}

// TransferTo moves amount into other. The debit and credit look atomic
// from outside: if the target cannot accept the full debited amount
// (capacity or efficiency loss), the unaccepted remainder is refunded to
// the source, so no energy leaks. Returns the amount the target stored.
func (r *Reservoir) TransferTo(other *Reservoir, amount float64) (float64, ThresholdEvent, ThresholdEvent) {
	ok, _ := r.Remove(amount)
	if !ok {
		return 0, ThresholdNone, ThresholdNone
	}
	stored, targetEv := other.Add(amount)

	// Refund the part the target did not accept. Efficiency loss on the
	// receiving side is intentional (it models lossy transfer); only the
	// capacity shortfall comes back.
	var accepted float64
	if other.Efficiency > 0 {
		accepted = stored / other.Efficiency
	}
	if accepted > amount {
		accepted = amount
	}
	shortfall := amount - accepted
	if shortfall > 0 {
		r.Current += shortfall
		if r.Current > r.Capacity {
			r.Current = r.Capacity
		}
	}
	return stored, r.evaluate(), targetEv
}

// SetCapacity changes the capacity (upgrades). Shrinking below the
// current level clamps the level down. Negative capacities are rejected.
func (r *Reservoir) SetCapacity(capacity float64) bool {
	if capacity < 0 || math.IsInf(capacity, 0) || math.IsNaN(capacity) {
		return false
	}
	r.Capacity = capacity
	if r.Current > capacity {
		r.Current = capacity
	}
	return true
}

// SetEfficiency changes the storage efficiency. Out-of-range requests
// are rejected with no mutation.
func (r *Reservoir) SetEfficiency(efficiency float64) bool {
	if efficiency < 0 || efficiency > 1 || math.IsNaN(efficiency) {
		return false
	}
	r.Efficiency = efficiency
	return true
}

// Percentage returns the fill level in [0,1].
func (r *Reservoir) Percentage() float64 {
	if r.Capacity <= 0 {
		return 0
	}
	return r.Current / r.Capacity
}

// IsEmpty reports whether the reservoir is depleted.
func (r *Reservoir) IsEmpty() bool { return r.Current <= 0 }

// IsLow reports whether the level is at or below the low threshold.
func (r *Reservoir) IsLow() bool {
	return r.Current <= r.Capacity*r.LowThreshold
}

// IsFull reports whether the reservoir is at capacity.
func (r *Reservoir) IsFull() bool { return r.Current >= r.Capacity }

// evaluate returns the single threshold category the current level
// falls in, in priority order.
func (r *Reservoir) evaluate() ThresholdEvent {
	switch {
	case r.Current <= 0:
		return ThresholdDepleted
	case r.Current <= r.Capacity*r.CriticalThreshold:
		return ThresholdCritical
	case r.Current >= r.Capacity:
		return ThresholdFull
	default:
		return ThresholdNone
	}
}

// Stats is a point-in-time snapshot of a reservoir for external queries.
type Stats struct {
	Current    float64
	Capacity   float64
	Percentage float64
	Efficiency float64
	IsLow      bool
	IsEmpty    bool
	IsFull     bool
}

// Snapshot returns the current stats.
func (r *Reservoir) Snapshot() Stats {
	return Stats{
		Current:    r.Current,
		Capacity:   r.Capacity,
		Percentage: r.Percentage(),
		Efficiency: r.Efficiency,
		IsLow:      r.IsLow(),
		IsEmpty:    r.IsEmpty(),
		IsFull:     r.IsFull(),
	}
}
