package systems

import (
	"math"
	"testing"

	"github.com/emberworks/ember/components"
)

func miningTestParams() MiningParams {
	return MiningParams{EnergyPerSecond: 2.0, EnergyPerUnit: 0.1, Range: 5.0}
}

func TestStartMiningRejectsDepletedOrMissing(t *testing.T) {
	a := &components.Action{}
	if res := StartMining(a, nil); res.Success || res.Reason != "target invalid or depleted" {
		t.Errorf("nil deposit: %+v", res)
	}
	depleted := &Deposit{ID: 1, Amount: 0}
	if res := StartMining(a, depleted); res.Success {
		t.Error("depleted deposit should be rejected")
	}
	if a.Active() {
		t.Error("failed start must leave the action idle")
	}
}

func TestStartMiningSucceedsOutOfRange(t *testing.T) {
	a := &components.Action{}
	d := &Deposit{ID: 3, Pos: components.Position{X: 1000}, Amount: 50, Rate: 1.5}

	res := StartMining(a, d)
	if !res.Success {
		t.Fatalf("start should succeed regardless of distance: %+v", res)
	}
	if a.Kind != components.ActionMine || a.Mine.DepositID != 3 {
		t.Errorf("action = %+v", a)
	}
	if a.Mine.Phase != components.MineApproaching {
		t.Error("mining should begin in the approaching phase")
	}
}

func TestStepMiningApproachesThenExtracts(t *testing.T) {
	r := newTestReservoir(100)
	src := ReservoirSource{R: r}
	l := newSystemsLedger()
	d := &Deposit{ID: 0, Pos: components.Position{X: 6}, Amount: 50, Rate: 1.5}
	a := &components.Action{}
	pos := &components.Position{X: 0}
	StartMining(a, d)

	// 6 units away, range 5: first tick moves (speed 4, dt 0.5 = 2 units),
	// landing at distance 4, inside range.
	outcome := StepMining(src, a, pos, 7, 4, d, l, 0, miningTestParams(), flatTerrain{}, 0.5)
	if outcome != MineMoving {
		t.Fatalf("first tick outcome = %v, want MineMoving", outcome)
	}

	startMaterials := l.TotalMaterials()
	outcome = StepMining(src, a, pos, 7, 4, d, l, 0, miningTestParams(), flatTerrain{}, 0.5)
	if outcome != MineWorking {
		t.Fatalf("second tick outcome = %v, want MineWorking", outcome)
	}
	if a.Mine.Phase != components.MineExtracting {
		t.Error("phase should be extracting once in range")
	}
	if d.Miner() != 7 {
		t.Errorf("deposit holder = %d, want 7", d.Miner())
	}
	// Rate 1.5 × dt 0.5 = 0.75 materials to the global pool.
	gained := l.TotalMaterials() - startMaterials
	if math.Abs(gained-0.75) > epsilon {
		t.Errorf("materials gained = %v, want 0.75", gained)
	}
	if math.Abs(a.Mine.Extracted-0.75) > epsilon {
		t.Errorf("Extracted = %v, want 0.75", a.Mine.Extracted)
	}
}

func TestStepMiningChargesUpkeepNotYield(t *testing.T) {
	r := newTestReservoir(100)
	src := ReservoirSource{R: r}
	l := newSystemsLedger()
	d := &Deposit{ID: 0, Pos: components.Position{X: 1}, Amount: 50, Rate: 1.5}
	a := &components.Action{}
	pos := &components.Position{X: 0}
	StartMining(a, d)

	StepMining(src, a, pos, 9, 4, d, l, 0, miningTestParams(), flatTerrain{}, 0.5)
	// Upkeep 2.0 × 0.5 = 1.0; in range from the start, so no travel cost.
	if math.Abs(r.Current-99) > epsilon {
		t.Errorf("Current = %v, want 99", r.Current)
	}
}

func TestTerritoryBonusScalesYieldNotPrice(t *testing.T) {
	params := miningTestParams()
	run := func(bonus float64) (materials, energySpent float64) {
		r := newTestReservoir(100)
		l := newSystemsLedger()
		d := &Deposit{ID: 0, Pos: components.Position{X: 1}, Amount: 50, Rate: 1.5}
		a := &components.Action{}
		pos := &components.Position{X: 0}
		StartMining(a, d)
		start := l.TotalMaterials()
		StepMining(ReservoirSource{R: r}, a, pos, 5, 4, d, l, bonus, params, flatTerrain{}, 0.5)
		return l.TotalMaterials() - start, 100 - r.Current
	}

	plainYield, plainCost := run(0)
	bonusYield, bonusCost := run(0.25)

	if math.Abs(bonusYield-plainYield*1.25) > epsilon {
		t.Errorf("bonus yield = %v, want %v", bonusYield, plainYield*1.25)
	}
	if math.Abs(bonusCost-plainCost) > epsilon {
		t.Errorf("bonus cost = %v, want %v (price unaffected)", bonusCost, plainCost)
	}
}

func TestStepMiningHaltsOnEnergyOut(t *testing.T) {
	r := newTestReservoir(0.5) // upkeep needs 1.0
	src := ReservoirSource{R: r}
	l := newSystemsLedger()
	d := &Deposit{ID: 0, Pos: components.Position{X: 1}, Amount: 50, Rate: 1.5}
	a := &components.Action{}
	pos := &components.Position{X: 0}
	StartMining(a, d)

	outcome := StepMining(src, a, pos, 5, 4, d, l, 0, miningTestParams(), flatTerrain{}, 0.5)
	if outcome != MineHalted {
		t.Fatalf("outcome = %v, want MineHalted", outcome)
	}
	if d.Miner() != 0 {
		t.Error("halt must release the deposit hold")
	}
	if r.Current != 0.5 {
		t.Errorf("Current = %v, want 0.5 (failed debit mutates nothing)", r.Current)
	}
}

func TestStepMiningFinishesOnDepletion(t *testing.T) {
	r := newTestReservoir(100)
	src := ReservoirSource{R: r}
	l := newSystemsLedger()
	d := &Deposit{ID: 0, Pos: components.Position{X: 1}, Amount: 0.5, Rate: 1.5}
	a := &components.Action{}
	pos := &components.Position{X: 0}
	StartMining(a, d)

	outcome := StepMining(src, a, pos, 5, 4, d, l, 0, miningTestParams(), flatTerrain{}, 0.5)
	if outcome != MineFinished {
		t.Fatalf("outcome = %v, want MineFinished", outcome)
	}
	// Only the 0.5 that was left came out.
	if math.Abs(a.Mine.Extracted-0.5) > epsilon {
		t.Errorf("Extracted = %v, want 0.5", a.Mine.Extracted)
	}
	if d.Miner() != 0 {
		t.Error("finish must release the deposit hold")
	}
}

func TestClaimIsExclusive(t *testing.T) {
	d := &Deposit{ID: 0, Amount: 50}
	if !d.Claim(1) {
		t.Fatal("first claim should succeed")
	}
	if d.Claim(2) {
		t.Error("second miner must not claim a held deposit")
	}
	if !d.Claim(1) {
		t.Error("holder re-claim should succeed")
	}

	// A stranger stopping must not evict the holder.
	d.StopMining(2)
	if d.Miner() != 1 {
		t.Errorf("holder = %d after stranger stop, want 1", d.Miner())
	}
	d.StopMining(1)
	if d.Miner() != 0 {
		t.Error("holder stop should release")
	}
}

func TestStepMiningClaimConflictHalts(t *testing.T) {
	r := newTestReservoir(100)
	src := ReservoirSource{R: r}
	l := newSystemsLedger()
	d := &Deposit{ID: 0, Pos: components.Position{X: 1}, Amount: 50, Rate: 1.5}
	d.Claim(99)
	a := &components.Action{}
	pos := &components.Position{X: 0}
	StartMining(a, d)

	outcome := StepMining(src, a, pos, 5, 4, d, l, 0, miningTestParams(), flatTerrain{}, 0.5)
	if outcome != MineHalted {
		t.Fatalf("outcome = %v, want MineHalted", outcome)
	}
	if d.Miner() != 99 {
		t.Errorf("holder = %d, want 99 (conflict must not evict)", d.Miner())
	}
}

func TestDepositMineCapsAtRemaining(t *testing.T) {
	d := &Deposit{ID: 0, Amount: 1.0, Rate: 10}
	got := d.Mine(0.5) // would be 5, capped at 1
	if math.Abs(got-1.0) > epsilon {
		t.Errorf("Mine = %v, want 1.0", got)
	}
	if !d.IsDepleted() {
		t.Error("deposit should be depleted")
	}
	if d.Mine(1) != 0 {
		t.Error("mining a depleted deposit yields 0")
	}
}
