package game

import (
	"github.com/emberworks/ember/components"
	"github.com/emberworks/ember/systems"
)

// DestroyUnit removes a unit from the world. Any reserved energy is
// refunded to the unit's source first and deposit claims are released,
// so destruction never strands energy or exclusivity.
func (g *Game) DestroyUnit(id uint32) {
	e, ok := g.units[id]
	if !ok {
		return
	}
	a := g.actionMap.Get(e)
	res := g.resMap.Get(e)
	if a.Active() {
		if a.Kind == components.ActionMine {
			if d := g.deposits.Get(a.Mine.DepositID); d != nil {
				d.StopMining(id)
			}
		}
		if a.ReservedEnergy > 0 {
			g.collector.RecordRefund()
		}
		systems.Dispose(a, g.sourceFor(id, res))
	}
	g.unitMapper.Remove(e)
	delete(g.units, id)
}

// removeBuilding despawns a building, complete or not.
func (g *Game) removeBuilding(id uint32) {
	e, ok := g.buildings[id]
	if !ok {
		return
	}
	g.buildingMapper.Remove(e)
	delete(g.buildings, id)
}

// DestroyBuilding removes a building. Units currently constructing it
// get their reservation back on their next tick when the target is
// gone; stored energy in the building is lost.
func (g *Game) DestroyBuilding(id uint32) {
	g.removeBuilding(id)
}

// Close flushes pending telemetry, exports the retained transaction
// window, and releases output files. The game is unusable afterwards.
func (g *Game) Close() error {
	stats := g.collector.Flush(g.tick, g.sampleFills(), g.sampleEconomy())
	if err := g.output.WriteTelemetry(stats); err != nil {
		return err
	}
	txs := g.ledger.RecentTransactions(g.ledger.TransactionCount())
	if err := g.output.WriteTransactions(txs); err != nil {
		return err
	}
	g.bus.Clear()
	return g.output.Close()
}
