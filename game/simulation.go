package game

import (
	"log/slog"

	"github.com/emberworks/ember/components"
	"github.com/emberworks/ember/systems"
	"github.com/emberworks/ember/telemetry"
)

// Step advances the simulation by one fixed tick. Everything runs on
// the caller's goroutine in a fixed order: ledger rate accounting,
// unit actions, building conversion, telemetry.
func (g *Game) Step() {
	g.tick++
	g.ledger.Update()
	g.stepActions()
	g.stepConversion()
	g.flushTelemetry()
}

// stepActions advances every unit's current action by one tick.
func (g *Game) stepActions() {
	query := g.unitFilter.Query()
	for query.Next() {
		pos, res, a, unit := query.Get()
		if !a.Active() {
			continue
		}
		src := g.sourceFor(unit.ID, res)

		switch a.Kind {
		case components.ActionMove:
			g.stepMove(src, a, pos, unit)
		case components.ActionMine:
			g.stepMine(src, a, pos, unit)
		case components.ActionBuild:
			g.stepBuild(src, a)
		}
	}
}

func (g *Game) stepMove(src systems.EnergySource, a *components.Action, pos *components.Position, unit *components.Unit) {
	target := a.Move.Target
	if a.Move.TargetEntity != 0 {
		// Follow: re-resolve the target position every tick.
		e, ok := g.anyEntity(a.Move.TargetEntity)
		if !ok {
			a.Clear()
			return
		}
		target = *g.posMap.Get(e)
	}

	outcome := systems.StepMovement(src, pos, target, unit.Speed,
		a.Move.StopRange, g.energyPerUnit, g.dt, g.terrain)
	switch outcome {
	case systems.MoveArrived:
		g.collector.RecordMoveCompleted()
		a.Clear()
	case systems.MoveBlocked:
		// Out of energy: the unit stays where it is and the order ends.
		g.collector.RecordInsufficiency()
		a.Clear()
	}
}

func (g *Game) stepMine(src systems.EnergySource, a *components.Action, pos *components.Position, unit *components.Unit) {
	d := g.deposits.Get(a.Mine.DepositID)
	if d == nil {
		a.Clear()
		return
	}
	params := g.miningParams
	params.Range = unit.MiningRange
	bonus := g.territory.MiningBonusAt(d.Position())

	before := a.Mine.Extracted
	outcome := systems.StepMining(src, a, pos, unit.ID, unit.Speed,
		d, g.ledger, bonus, params, g.terrain, g.dt)
	if mined := a.Mine.Extracted - before; mined > 0 {
		g.collector.RecordMined(mined)
	}

	switch outcome {
	case systems.MineFinished:
		g.collector.RecordMineCompleted()
		a.Clear()
	case systems.MineHalted:
		g.collector.RecordInsufficiency()
		a.Clear()
	}
}

func (g *Game) stepBuild(src systems.EnergySource, a *components.Action) {
	buildingID := a.Build.BuildingEntity
	switch systems.StepConstruction(a) {
	case systems.BuildCompleted:
		if e, ok := g.buildings[buildingID]; ok {
			g.buildingMap.Get(e).Complete = true
		}
		g.collector.RecordBuildCompleted()
		a.Clear()
	case systems.BuildFailed:
		g.collector.RecordInsufficiency()
		systems.CancelConstruction(a, src)
		g.removeBuilding(buildingID)
	}
}

// stepConversion runs material-to-energy conversion for every complete
// generator building.
func (g *Game) stepConversion() {
	query := g.buildingFilter.Query()
	for query.Next() {
		_, _, b := query.Get()
		if !b.Complete || !b.GeneratesEnergy {
			continue
		}
		if energy, ok := g.converter.Step(g.ledger, b.ID, b.ConsumptionRate, g.dt); ok {
			g.collector.RecordConversion(energy)
		}
	}
}

// flushTelemetry emits a stats window when enough ticks have elapsed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}
	stats := g.collector.Flush(g.tick, g.sampleFills(), g.sampleEconomy())
	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Error("telemetry write failed", "error", err)
	}
	if g.logStats {
		slog.Info("stats", "window", stats)
	}
}

// sampleFills collects the fill fraction of every bounded store.
func (g *Game) sampleFills() []float64 {
	fills := make([]float64, 0, len(g.units)+len(g.buildings))
	query := g.unitFilter.Query()
	for query.Next() {
		_, res, _, _ := query.Get()
		fills = append(fills, res.Percentage())
	}
	bq := g.buildingFilter.Query()
	for bq.Next() {
		_, res, b := bq.Get()
		if b.Complete && res.Capacity > 0 {
			fills = append(fills, res.Percentage())
		}
	}
	return fills
}

// sampleEconomy snapshots the pool totals at window end.
func (g *Game) sampleEconomy() telemetry.EconomySample {
	var stored, reserved float64
	query := g.unitFilter.Query()
	for query.Next() {
		_, res, a, _ := query.Get()
		stored += res.Current
		reserved += a.ReservedEnergy
	}
	bq := g.buildingFilter.Query()
	for bq.Next() {
		_, res, _ := bq.Get()
		stored += res.Current
	}
	return telemetry.EconomySample{
		Units:           len(g.units),
		Buildings:       len(g.buildings),
		LedgerEnergy:    g.ledger.TotalEnergy(),
		LedgerMaterials: g.ledger.TotalMaterials(),
		GenerationRate:  g.ledger.GenerationRate(),
		ConsumptionRate: g.ledger.ConsumptionRate(),
		StoredEnergy:    stored,
		ReservedEnergy:  reserved,
		DepositsLeft:    float64(g.deposits.ActiveCount()),
	}
}
