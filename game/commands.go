package game

import (
	"fmt"

	"github.com/emberworks/ember/components"
	"github.com/emberworks/ember/config"
	"github.com/emberworks/ember/systems"
)

// CommandMove orders a unit to move to a world position. stopRange zero
// means arrive exactly at the target.
func (g *Game) CommandMove(unitID uint32, target components.Position, stopRange float64) systems.Result {
	e, ok := g.unitEntity(unitID)
	if !ok {
		return systems.Fail("unknown unit", false)
	}
	a := g.actionMap.Get(e)
	if a == nil {
		return systems.Fail("entity cannot act", false)
	}
	return systems.StartMove(a, target, 0, stopRange)
}

// CommandMoveToEntity orders a unit toward another entity, stopping at
// stopRange. The target position is re-resolved every tick so moving
// targets are followed.
func (g *Game) CommandMoveToEntity(unitID, targetID uint32, stopRange float64) systems.Result {
	e, ok := g.unitEntity(unitID)
	if !ok {
		return systems.Fail("unknown unit", false)
	}
	if _, ok := g.anyEntity(targetID); !ok {
		return systems.Fail("unknown target", false)
	}
	a := g.actionMap.Get(e)
	if a == nil {
		return systems.Fail("entity cannot act", false)
	}
	return systems.StartMove(a, components.Position{}, targetID, stopRange)
}

// CommandMine orders a unit to mine a deposit. The unit walks into
// range by itself; issuing the order from anywhere on the map is valid.
func (g *Game) CommandMine(unitID uint32, depositID int32) systems.Result {
	e, ok := g.unitEntity(unitID)
	if !ok {
		return systems.Fail("unknown unit", false)
	}
	unit := g.unitMap.Get(e)
	if unit == nil || !unit.CanMine {
		return systems.Fail("unit cannot mine", false)
	}
	a := g.actionMap.Get(e)
	return systems.StartMining(a, g.deposits.Get(depositID))
}

// CommandMineNearest targets the closest deposit with remaining minerals.
func (g *Game) CommandMineNearest(unitID uint32) systems.Result {
	e, ok := g.unitEntity(unitID)
	if !ok {
		return systems.Fail("unknown unit", false)
	}
	pos := g.posMap.Get(e)
	d := g.deposits.Nearest(*pos)
	if d == nil {
		return systems.Fail("no deposits remaining", false)
	}
	return g.CommandMine(unitID, d.ID)
}

// CommandBuild orders a unit to construct a building of the named type
// at a position. The full cost is reserved from the builder up front;
// if the builder cannot cover it the order fails and nothing is placed.
func (g *Game) CommandBuild(builderID uint32, typeName string, x, z float64) (uint32, systems.Result) {
	e, ok := g.unitEntity(builderID)
	if !ok {
		return 0, systems.Fail("unknown unit", false)
	}
	unit := g.unitMap.Get(e)
	if unit == nil || !unit.CanBuild {
		return 0, systems.Fail("unit cannot build", false)
	}

	cfg := config.Cfg()
	idx, ok := cfg.Derived.BuildingIndex[typeName]
	if !ok {
		return 0, systems.Fail(fmt.Sprintf("unknown building type %q", typeName), false)
	}
	cost := cfg.BuildingTypes[idx].EnergyCost
	if cost <= 0 {
		cost = cfg.Construction.DefaultCost
	}

	a := g.actionMap.Get(e)
	res := g.resMap.Get(e)
	result := systems.StartConstruction(a, g.sourceFor(builderID, res), 0, cost)
	if !result.Success {
		return 0, result
	}
	g.collector.RecordReservation()

	// Placement happens only after the reservation held.
	buildingID, err := g.SpawnBuilding(typeName, x, z, false)
	if err != nil {
		systems.CancelConstruction(a, g.sourceFor(builderID, res))
		return 0, systems.Fail(err.Error(), false)
	}
	a.Build.BuildingEntity = buildingID
	return buildingID, result
}

// CancelAction aborts a unit's current action, refunding any reserved
// energy and giving up deposit claims. Cancelling an idle unit is a
// no-op.
func (g *Game) CancelAction(unitID uint32) {
	e, ok := g.unitEntity(unitID)
	if !ok {
		return
	}
	a := g.actionMap.Get(e)
	if a == nil || !a.Active() {
		return
	}
	res := g.resMap.Get(e)
	src := g.sourceFor(unitID, res)

	switch a.Kind {
	case components.ActionMine:
		systems.StopMining(a, g.deposits.Get(a.Mine.DepositID), unitID)
		systems.Dispose(a, src)
	case components.ActionBuild:
		if a.ReservedEnergy > 0 {
			g.collector.RecordRefund()
		}
		systems.CancelConstruction(a, src)
	default:
		systems.Dispose(a, src)
	}
	g.collector.RecordCancellation()
}

// DrainEntity forcibly removes up to amount of energy from an entity's
// storage, returning what was actually taken. Used for parasitic drain
// effects; it never fails, an empty reservoir just yields zero.
func (g *Game) DrainEntity(entityID uint32, amount float64, reason string) float64 {
	e, ok := g.anyEntity(entityID)
	if !ok {
		return 0
	}
	res := g.resMap.Get(e)
	if res == nil {
		return 0
	}
	drained := systems.DrainEnergy(g.bus, res, amount, reason)
	g.collector.RecordDrain(drained)
	return drained
}

// GetCurrentEnergy returns an entity's stored energy, or the global
// pool for id zero.
func (g *Game) GetCurrentEnergy(id uint32) float64 {
	if id == 0 {
		return g.ledger.TotalEnergy()
	}
	e, ok := g.anyEntity(id)
	if !ok {
		return 0
	}
	res := g.resMap.Get(e)
	if res == nil {
		return 0
	}
	return res.Current
}

// GetEnergyPercentage returns an entity's fill fraction in [0,1].
func (g *Game) GetEnergyPercentage(id uint32) float64 {
	e, ok := g.anyEntity(id)
	if !ok {
		return 0
	}
	res := g.resMap.Get(e)
	if res == nil {
		return 0
	}
	return res.Percentage()
}

// GetReservoirStats snapshots an entity's storage state.
func (g *Game) GetReservoirStats(id uint32) (components.Stats, bool) {
	e, ok := g.anyEntity(id)
	if !ok {
		return components.Stats{}, false
	}
	res := g.resMap.Get(e)
	if res == nil {
		return components.Stats{}, false
	}
	return res.Snapshot(), true
}

// ActionStatus describes what an entity is doing right now.
type ActionStatus struct {
	Kind      string
	Active    bool
	Progress  float64
	Reserved  float64
	Extracted float64
}

// GetActionStatus reports a unit's current action.
func (g *Game) GetActionStatus(id uint32) ActionStatus {
	e, ok := g.unitEntity(id)
	if !ok {
		return ActionStatus{Kind: components.ActionNone.String()}
	}
	a := g.actionMap.Get(e)
	if a == nil {
		return ActionStatus{Kind: components.ActionNone.String()}
	}
	return ActionStatus{
		Kind:      a.Kind.String(),
		Active:    a.Active(),
		Progress:  a.Progress(),
		Reserved:  a.ReservedEnergy,
		Extracted: a.Mine.Extracted,
	}
}
