package systems

import (
	"github.com/emberworks/ember/components"
	"github.com/emberworks/ember/ledger"
)

// MineOutcome reports what a mining tick did.
type MineOutcome uint8

const (
	// MineMoving means the miner is still approaching the deposit.
	MineMoving MineOutcome = iota
	// MineWorking means materials were extracted this tick.
	MineWorking
	// MineFinished means the deposit is exhausted; the action completed.
	MineFinished
	// MineHalted means mining stopped early (insufficient energy or the
	// deposit became invalid). The miner may retry later.
	MineHalted
)

// MiningParams bundles the configured cost/yield model.
type MiningParams struct {
	EnergyPerSecond float64 // upkeep while extracting
	EnergyPerUnit   float64 // movement cost during approach
	Range           float64 // max working distance
}

// StartMining initializes a mining action. If the deposit is out of
// range the action begins in the approaching phase and movement
// resolves first; extraction only starts once distance <= range. The
// start itself succeeds either way.
func StartMining(a *components.Action, d *Deposit) Result {
	if a.Active() {
		return Fail("action already active", false)
	}
	if d == nil || d.IsDepleted() {
		return Fail("target invalid or depleted", false)
	}
	a.Kind = components.ActionMine
	a.Mine = components.MineState{DepositID: d.ID, Phase: components.MineApproaching}
	return OK()
}

// StepMining advances one mining tick. Upkeep is energyPerSecond×dt,
// debited directly from the source each tick (no reservation — this is
// a continuous cost). Extraction is d.Mine(dt×(1+bonus)): the territory
// liberation bonus scales yield, never the energy price. Extracted
// materials are forwarded to the ledger as generation credited to the
// miner. Every stop path releases the deposit's exclusivity.
func StepMining(src EnergySource, a *components.Action, pos *components.Position, minerID uint32, speed float64, d *Deposit, l *ledger.Ledger, bonus float64, p MiningParams, terrain HeightField, dt float64) MineOutcome {
	if d == nil {
		return MineHalted
	}
	if d.IsDepleted() {
		StopMining(a, d, minerID)
		return MineFinished
	}

	if pos.DistanceTo(d.Pos) > p.Range {
		a.Mine.Phase = components.MineApproaching
		if StepMovement(src, pos, d.Pos, speed, p.Range, p.EnergyPerUnit, dt, terrain) == MoveBlocked {
			StopMining(a, d, minerID)
			return MineHalted
		}
		// Extraction starts next tick even if this step arrived, so a
		// tick never pays both travel and upkeep.
		return MineMoving
	}

	if a.Mine.Phase != components.MineExtracting {
		if !d.Claim(minerID) {
			return MineHalted
		}
		a.Mine.Phase = components.MineExtracting
	}

	upkeep := p.EnergyPerSecond * dt
	if !src.Withdraw(upkeep, "mining") {
		StopMining(a, d, minerID)
		return MineHalted
	}

	extracted := d.Mine(dt * (1 + bonus))
	if extracted > 0 {
		l.GenerateMaterials(minerID, extracted, "mining")
		a.Mine.Extracted += extracted
	}

	if d.IsDepleted() {
		StopMining(a, d, minerID)
		return MineFinished
	}
	return MineWorking
}

// StopMining halts a mining action, releasing the deposit hold. Safe to
// call whether or not extraction had begun.
func StopMining(a *components.Action, d *Deposit, minerID uint32) {
	if d != nil {
		d.StopMining(minerID)
	}
	a.Mine.Phase = components.MineApproaching
}
