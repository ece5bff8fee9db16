// Package ledger implements the process-wide energy/materials economy.
//
// The ledger is an explicitly constructed, explicitly owned context:
// one instance is created at session start, passed by reference to
// every component that needs it, and torn down at session end. There is
// no package-level singleton.
package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/emberworks/ember/config"
	"github.com/emberworks/ember/events"
)

// TxType classifies a transaction.
type TxType string

const (
	TxGeneration  TxType = "generation"
	TxConsumption TxType = "consumption"
	TxTransfer    TxType = "transfer"
)

// Resource identifies which pool a transaction touched.
type Resource string

const (
	ResourceEnergy    Resource = "energy"
	ResourceMaterials Resource = "materials"
)

// Transaction records a single pool mutation (or a rejected attempt —
// failed transactions stay in the audit trail so recurring insufficiency
// can be diagnosed).
type Transaction struct {
	ID        string    `csv:"id"`
	EntityID  uint32    `csv:"entity"`
	Amount    float64   `csv:"amount"` // signed: credits positive, debits negative
	Type      TxType    `csv:"type"`
	Resource  Resource  `csv:"resource"`
	Action    string    `csv:"action"`
	Timestamp time.Time `csv:"timestamp"`
	Success   bool      `csv:"success"`
}

// EnergyStats is the derived view over the retained transaction window.
// Generation/consumption totals are computed from successful
// transactions only, never tracked as separate running totals, so the
// two representations cannot drift.
type EnergyStats struct {
	TotalEnergy      float64
	TotalMaterials   float64
	TotalGeneration  float64
	TotalConsumption float64
	GenerationRate   float64 // energy/sec over the last completed rate window
	ConsumptionRate  float64
}

// Ledger tracks the unbounded system-wide energy pool and the materials
// pool. Pools never go negative; every mutation is paired with a
// transaction record.
type Ledger struct {
	now func() time.Time
	bus *events.Bus

	energy    float64
	materials float64

	startEnergy    float64
	startMaterials float64

	lowEnergy      float64 // absolute thresholds: the pool has no capacity
	depletedEnergy float64

	// Ring buffer of the most recent transactions.
	window []Transaction
	next   int
	count  int

	// Wall-clock rate windows, advanced by Update.
	rateWindow      time.Duration
	windowStart     time.Time
	genAccum        float64
	consAccum       float64
	generationRate  float64
	consumptionRate float64
}

// New creates a ledger with the configured starting pools. The now
// function supplies wall-clock time; tests inject a fake clock.
func New(cfg *config.Config, bus *events.Bus, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	// Hand-built configs may skip Load's defaulting; never size the ring
	// or the rate window at zero.
	txWindow := cfg.Ledger.TransactionWindow
	if txWindow <= 0 {
		txWindow = 100
	}
	rateMS := cfg.Ledger.RateWindowMS
	if rateMS <= 0 {
		rateMS = 1000
	}
	l := &Ledger{
		now:            now,
		bus:            bus,
		energy:         cfg.Ledger.StartingEnergy,
		materials:      cfg.Ledger.StartingMaterials,
		startEnergy:    cfg.Ledger.StartingEnergy,
		startMaterials: cfg.Ledger.StartingMaterials,
		lowEnergy:      cfg.Ledger.LowEnergy,
		depletedEnergy: cfg.Ledger.DepletedEnergy,
		window:         make([]Transaction, txWindow),
		rateWindow:     time.Duration(rateMS) * time.Millisecond,
	}
	l.windowStart = now()
	return l
}

// Update advances the wall-clock rate window. Called once per frame by
// the driver; the counters reset exactly once per elapsed window.
func (l *Ledger) Update() {
	t := l.now()
	if t.Sub(l.windowStart) < l.rateWindow {
		return
	}
	secs := l.rateWindow.Seconds()
	l.generationRate = l.genAccum / secs
	l.consumptionRate = l.consAccum / secs
	l.genAccum = 0
	l.consAccum = 0
	l.windowStart = t
}

// CanConsumeEnergy reports whether the pool can satisfy the debit.
func (l *Ledger) CanConsumeEnergy(amount float64) bool {
	return amount >= 0 && amount <= l.energy
}

// CanConsumeMaterials reports whether the materials pool can satisfy the debit.
func (l *Ledger) CanConsumeMaterials(amount float64) bool {
	return amount >= 0 && amount <= l.materials
}

// ConsumeEnergy debits the energy pool. On failure the pool is not
// mutated and a failed transaction is appended for audit.
func (l *Ledger) ConsumeEnergy(entityID uint32, amount float64, action string) bool {
	if !l.CanConsumeEnergy(amount) {
		l.append(entityID, -amount, TxConsumption, ResourceEnergy, action, false)
		return false
	}
	l.energy -= amount
	l.consAccum += amount
	l.append(entityID, -amount, TxConsumption, ResourceEnergy, action, true)
	l.publishEnergy(entityID, -amount, action)
	l.notifyEnergyLevel(entityID, -amount)
	return true
}

// ConsumeMaterials debits the materials pool. Failure never mutates.
func (l *Ledger) ConsumeMaterials(entityID uint32, amount float64, action string) bool {
	if !l.CanConsumeMaterials(amount) {
		l.append(entityID, -amount, TxConsumption, ResourceMaterials, action, false)
		return false
	}
	l.materials -= amount
	l.append(entityID, -amount, TxConsumption, ResourceMaterials, action, true)
	l.publishMaterials(entityID, -amount, action)
	return true
}

// GenerateEnergy credits the energy pool. Non-positive amounts are no-ops.
func (l *Ledger) GenerateEnergy(entityID uint32, amount float64, action string) {
	if amount <= 0 {
		return
	}
	l.energy += amount
	l.genAccum += amount
	l.append(entityID, amount, TxGeneration, ResourceEnergy, action, true)
	l.publishEnergy(entityID, amount, action)
}

// GenerateMaterials credits the materials pool. Non-positive amounts are no-ops.
func (l *Ledger) GenerateMaterials(entityID uint32, amount float64, action string) {
	if amount <= 0 {
		return
	}
	l.materials += amount
	l.append(entityID, amount, TxGeneration, ResourceMaterials, action, true)
	l.publishMaterials(entityID, amount, action)
}

// RecordTransfer appends a transfer audit record without touching the
// pools; the actual energy moved between reservoirs.
func (l *Ledger) RecordTransfer(entityID uint32, amount float64, action string) {
	l.append(entityID, amount, TxTransfer, ResourceEnergy, action, true)
}

// TotalEnergy returns the current energy pool level.
func (l *Ledger) TotalEnergy() float64 { return l.energy }

// TotalMaterials returns the current materials pool level.
func (l *Ledger) TotalMaterials() float64 { return l.materials }

// GenerationRate returns energy credited per second over the last
// completed rate window.
func (l *Ledger) GenerationRate() float64 { return l.generationRate }

// ConsumptionRate returns energy debited per second over the last
// completed rate window.
func (l *Ledger) ConsumptionRate() float64 { return l.consumptionRate }

// EnergyStats derives aggregate statistics from the retained window.
func (l *Ledger) EnergyStats() EnergyStats {
	stats := EnergyStats{
		TotalEnergy:     l.energy,
		TotalMaterials:  l.materials,
		GenerationRate:  l.generationRate,
		ConsumptionRate: l.consumptionRate,
	}
	for _, tx := range l.RecentTransactions(l.count) {
		if !tx.Success || tx.Resource != ResourceEnergy {
			continue
		}
		switch tx.Type {
		case TxGeneration:
			stats.TotalGeneration += tx.Amount
		case TxConsumption:
			stats.TotalConsumption += -tx.Amount
		}
	}
	return stats
}

// TransactionCount returns how many transactions the window retains.
func (l *Ledger) TransactionCount() int { return l.count }

// RecentTransactions returns up to n retained transactions, newest last.
func (l *Ledger) RecentTransactions(n int) []Transaction {
	if n <= 0 || l.count == 0 {
		return nil
	}
	if n > l.count {
		n = l.count
	}
	out := make([]Transaction, 0, n)
	start := l.next - n
	if start < 0 {
		start += len(l.window)
	}
	for i := 0; i < n; i++ {
		out = append(out, l.window[(start+i)%len(l.window)])
	}
	return out
}

// Reset clears counters and transaction history and restores the
// starting pools.
func (l *Ledger) Reset() {
	l.energy = l.startEnergy
	l.materials = l.startMaterials
	for i := range l.window {
		l.window[i] = Transaction{}
	}
	l.next = 0
	l.count = 0
	l.genAccum = 0
	l.consAccum = 0
	l.generationRate = 0
	l.consumptionRate = 0
	l.windowStart = l.now()
}

func (l *Ledger) append(entityID uint32, amount float64, t TxType, r Resource, action string, success bool) {
	l.window[l.next] = Transaction{
		ID:        uuid.NewString(),
		EntityID:  entityID,
		Amount:    amount,
		Type:      t,
		Resource:  r,
		Action:    action,
		Timestamp: l.now(),
		Success:   success,
	}
	l.next = (l.next + 1) % len(l.window)
	if l.count < len(l.window) {
		l.count++
	}
}

// notifyEnergyLevel fires the absolute-threshold notifications after a
// successful consumption.
func (l *Ledger) notifyEnergyLevel(entityID uint32, delta float64) {
	if l.bus == nil {
		return
	}
	p := events.Payload{Entity: entityID, Delta: delta, Current: l.energy}
	if l.energy <= l.depletedEnergy {
		l.bus.Publish(events.LedgerEnergyDepleted, p)
	} else if l.energy <= l.lowEnergy {
		l.bus.Publish(events.LedgerEnergyLow, p)
	}
}

func (l *Ledger) publishEnergy(entityID uint32, delta float64, action string) {
	if l.bus == nil {
		return
	}
	l.bus.Publish(events.LedgerEnergyChanged, events.Payload{
		Entity:  entityID,
		Delta:   delta,
		Current: l.energy,
		Reason:  action,
	})
}

func (l *Ledger) publishMaterials(entityID uint32, delta float64, action string) {
	if l.bus == nil {
		return
	}
	l.bus.Publish(events.MaterialsChanged, events.Payload{
		Entity:  entityID,
		Delta:   delta,
		Current: l.materials,
		Reason:  action,
	})
}
