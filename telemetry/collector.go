// Package telemetry provides economy health tracking and CSV output.
package telemetry

// Collector accumulates economy events within time windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float64

	windowStartTick int64

	// Event counters for the current window
	reservations     int
	refunds          int
	insufficiencies  int
	movesCompleted   int
	minesCompleted   int
	buildsCompleted  int
	actionsCancelled int
	conversions      int
	materialsMined   float64
	energyConverted  float64
	energyDrained    float64
}

// NewCollector creates a stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds.
// dt: seconds per tick.
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int64(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordReservation records a successful energy reservation.
func (c *Collector) RecordReservation() { c.reservations++ }

// RecordRefund records a reservation refund.
func (c *Collector) RecordRefund() { c.refunds++ }

// RecordInsufficiency records an action blocked by missing energy.
func (c *Collector) RecordInsufficiency() { c.insufficiencies++ }

// RecordMoveCompleted records a finished movement action.
func (c *Collector) RecordMoveCompleted() { c.movesCompleted++ }

// RecordMineCompleted records a mining action that exhausted its deposit.
func (c *Collector) RecordMineCompleted() { c.minesCompleted++ }

// RecordBuildCompleted records a finished construction.
func (c *Collector) RecordBuildCompleted() { c.buildsCompleted++ }

// RecordCancellation records a cancelled action.
func (c *Collector) RecordCancellation() { c.actionsCancelled++ }

// RecordMined records materials forwarded to the ledger by mining.
func (c *Collector) RecordMined(amount float64) { c.materialsMined += amount }

// RecordConversion records one power-plant conversion tick.
func (c *Collector) RecordConversion(energy float64) {
	c.conversions++
	c.energyConverted += energy
}

// RecordDrain records energy stolen by an external drain.
func (c *Collector) RecordDrain(amount float64) { c.energyDrained += amount }

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// The reservoir fill levels and economy pools are sampled by the caller
// at window end and passed in.
func (c *Collector) Flush(currentTick int64, fills []float64, pools EconomySample) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Reservations:     c.reservations,
		Refunds:          c.refunds,
		Insufficiencies:  c.insufficiencies,
		MovesCompleted:   c.movesCompleted,
		MinesCompleted:   c.minesCompleted,
		BuildsCompleted:  c.buildsCompleted,
		ActionsCancelled: c.actionsCancelled,
		Conversions:      c.conversions,
		MaterialsMined:   c.materialsMined,
		EnergyConverted:  c.energyConverted,
		EnergyDrained:    c.energyDrained,

		Units:           pools.Units,
		Buildings:       pools.Buildings,
		LedgerEnergy:    pools.LedgerEnergy,
		LedgerMaterials: pools.LedgerMaterials,
		GenerationRate:  pools.GenerationRate,
		ConsumptionRate: pools.ConsumptionRate,
		StoredEnergy:    pools.StoredEnergy,
		ReservedEnergy:  pools.ReservedEnergy,
		DepositsLeft:    pools.DepositsLeft,
	}
	stats.fillDistribution(fills)

	c.windowStartTick = currentTick
	c.reservations = 0
	c.refunds = 0
	c.insufficiencies = 0
	c.movesCompleted = 0
	c.minesCompleted = 0
	c.buildsCompleted = 0
	c.actionsCancelled = 0
	c.conversions = 0
	c.materialsMined = 0
	c.energyConverted = 0
	c.energyDrained = 0

	return stats
}

// EconomySample holds point-in-time pool totals captured at window end.
type EconomySample struct {
	Units           int
	Buildings       int
	LedgerEnergy    float64
	LedgerMaterials float64
	GenerationRate  float64
	ConsumptionRate float64
	StoredEnergy    float64 // sum over all reservoirs
	ReservedEnergy  float64 // sum over all outstanding reservations
	DepositsLeft    float64
}
