// Package game wires the economy core into an ECS world and drives it
// frame by frame.
package game

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/emberworks/ember/components"
	"github.com/emberworks/ember/config"
	"github.com/emberworks/ember/events"
	"github.com/emberworks/ember/ledger"
	"github.com/emberworks/ember/systems"
	"github.com/emberworks/ember/telemetry"
)

// Terrain shaping constants.
const (
	TerrainAmplitude = 12.0
	TerrainScale     = 0.01
)

// Options configures a game session.
type Options struct {
	Seed           int64
	StatsWindowSec float64
	OutputDir      string
	LogStats       bool
	Now            func() time.Time // nil = time.Now; tests inject a fake clock
}

// Game holds the complete session state: one ECS world, one ledger, one
// event bus. The ledger is owned here and passed by reference to every
// component that needs it; there is no global economy state.
type Game struct {
	world *ecs.World
	rng   *rand.Rand

	// Unit entities: position, bounded storage, action slot, unit data
	unitMapper *ecs.Map4[
		components.Position,
		components.Reservoir,
		components.Action,
		components.Unit,
	]
	unitFilter *ecs.Filter4[
		components.Position,
		components.Reservoir,
		components.Action,
		components.Unit,
	]

	// Building entities: position, storage, building data
	buildingMapper *ecs.Map3[
		components.Position,
		components.Reservoir,
		components.Building,
	]
	buildingFilter *ecs.Filter3[
		components.Position,
		components.Reservoir,
		components.Building,
	]

	// Individual component mappers for lookups
	posMap      *ecs.Map1[components.Position]
	resMap      *ecs.Map1[components.Reservoir]
	actionMap   *ecs.Map1[components.Action]
	unitMap     *ecs.Map1[components.Unit]
	buildingMap *ecs.Map1[components.Building]

	// Economy context
	bus       *events.Bus
	ledger    *ledger.Ledger
	deposits  *systems.DepositField
	terrain   *systems.Terrain
	territory systems.BonusProvider
	converter systems.Converter

	// Telemetry
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool

	// State
	tick      int64
	nextID    uint32
	units     map[uint32]ecs.Entity
	buildings map[uint32]ecs.Entity

	miningParams  systems.MiningParams
	energyPerUnit float64
	dt            float64
}

// NewGame creates a session from the loaded configuration.
func NewGame(opts Options) (*Game, error) {
	cfg := config.Cfg()
	world := ecs.NewWorld()
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus()
	terrain := systems.NewTerrain(seed, TerrainAmplitude, TerrainScale)

	g := &Game{
		world: world,
		rng:   rng,
		unitMapper: ecs.NewMap4[
			components.Position,
			components.Reservoir,
			components.Action,
			components.Unit,
		](world),
		unitFilter: ecs.NewFilter4[
			components.Position,
			components.Reservoir,
			components.Action,
			components.Unit,
		](world),
		buildingMapper: ecs.NewMap3[
			components.Position,
			components.Reservoir,
			components.Building,
		](world),
		buildingFilter: ecs.NewFilter3[
			components.Position,
			components.Reservoir,
			components.Building,
		](world),
		posMap:      ecs.NewMap1[components.Position](world),
		resMap:      ecs.NewMap1[components.Reservoir](world),
		actionMap:   ecs.NewMap1[components.Action](world),
		unitMap:     ecs.NewMap1[components.Unit](world),
		buildingMap: ecs.NewMap1[components.Building](world),

		bus:       bus,
		ledger:    ledger.New(cfg, bus, opts.Now),
		terrain:   terrain,
		deposits:  systems.NewDepositField(cfg, terrain, rng),
		territory: systems.NewZoneBonus(cfg.Territory.Zones),
		converter: systems.NewConverter(cfg.Conversion),

		collector: telemetry.NewCollector(statsWindow, cfg.Physics.DT),
		output:    output,
		logStats:  opts.LogStats,
		units:     make(map[uint32]ecs.Entity),
		buildings: make(map[uint32]ecs.Entity),

		miningParams: systems.MiningParams{
			EnergyPerSecond: cfg.Mining.EnergyPerSecond,
			EnergyPerUnit:   cfg.Movement.EnergyPerUnit,
			Range:           cfg.Mining.Range,
		},
		energyPerUnit: cfg.Movement.EnergyPerUnit,
		dt:            cfg.Physics.DT,
	}

	if err := output.WriteConfig(cfg); err != nil {
		return nil, err
	}

	return g, nil
}

// SpawnUnit creates a unit of the named type at the given position.
// Unknown type names are a configuration error, not a runtime economy
// condition, and fail hard.
func (g *Game) SpawnUnit(typeName string, x, z float64) (uint32, error) {
	cfg := config.Cfg()
	idx, ok := cfg.Derived.UnitIndex[typeName]
	if !ok {
		return 0, fmt.Errorf("unknown unit type %q", typeName)
	}
	ut := cfg.UnitTypes[idx]

	g.nextID++
	id := g.nextID

	pos := components.Position{X: x, Y: g.terrain.HeightAt(x, z), Z: z}
	res := components.NewReservoir(id,
		ut.Capacity*cfg.Storage.InitialFill,
		ut.Capacity,
		ut.Efficiency,
		cfg.Storage.LowThreshold,
		cfg.Storage.CriticalThreshold,
	)
	action := components.Action{}
	miningRange := ut.MiningRange
	if miningRange <= 0 {
		miningRange = cfg.Mining.Range
	}
	unit := components.Unit{
		ID:          id,
		TypeIndex:   idx,
		Speed:       ut.Speed,
		MiningRange: miningRange,
		CanMine:     ut.CanMine,
		CanBuild:    ut.CanBuild,
	}

	entity := g.unitMapper.NewEntity(&pos, &res, &action, &unit)
	g.units[id] = entity
	return id, nil
}

// SpawnBuilding creates a building of the named type. Buildings spawn
// incomplete unless preComplete is set (scenario setup); incomplete
// buildings neither store nor generate until construction finishes.
func (g *Game) SpawnBuilding(typeName string, x, z float64, preComplete bool) (uint32, error) {
	cfg := config.Cfg()
	idx, ok := cfg.Derived.BuildingIndex[typeName]
	if !ok {
		return 0, fmt.Errorf("unknown building type %q", typeName)
	}
	bt := cfg.BuildingTypes[idx]

	g.nextID++
	id := g.nextID

	pos := components.Position{X: x, Y: g.terrain.HeightAt(x, z), Z: z}
	res := components.NewReservoir(id, 0, bt.Capacity,
		cfg.Storage.Efficiency,
		cfg.Storage.LowThreshold,
		cfg.Storage.CriticalThreshold,
	)
	consumptionRate := bt.ConsumptionRate
	if consumptionRate <= 0 {
		consumptionRate = cfg.Conversion.MaterialsPerSecond
	}
	building := components.Building{
		ID:              id,
		TypeIndex:       idx,
		Complete:        preComplete,
		GeneratesEnergy: bt.GeneratesEnergy,
		ConsumptionRate: consumptionRate,
	}

	entity := g.buildingMapper.NewEntity(&pos, &res, &building)
	g.buildings[id] = entity
	return id, nil
}

// sourceFor resolves the energy source for an entity: its bounded
// reservoir when it has usable capacity, otherwise the global ledger.
func (g *Game) sourceFor(id uint32, res *components.Reservoir) systems.EnergySource {
	if res != nil && res.Capacity > 0 {
		return systems.ReservoirSource{Bus: g.bus, R: res}
	}
	return systems.LedgerSource{L: g.ledger, Entity: id}
}

// unitEntity returns the ECS entity for a unit id.
func (g *Game) unitEntity(id uint32) (ecs.Entity, bool) {
	e, ok := g.units[id]
	return e, ok
}

// anyEntity resolves either a unit or a building id.
func (g *Game) anyEntity(id uint32) (ecs.Entity, bool) {
	if e, ok := g.units[id]; ok {
		return e, true
	}
	e, ok := g.buildings[id]
	return e, ok
}

// Ledger exposes the session's economy context.
func (g *Game) Ledger() *ledger.Ledger { return g.ledger }

// Bus exposes the session's notification bus.
func (g *Game) Bus() *events.Bus { return g.bus }

// Deposits exposes the mineral deposit field.
func (g *Game) Deposits() *systems.DepositField { return g.deposits }

// Terrain exposes the height field.
func (g *Game) Terrain() *systems.Terrain { return g.terrain }

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 { return g.tick }

// Dir returns the telemetry output directory.
func (g *Game) Dir() string { return g.output.Dir() }

// UnitIDs returns the ids of all live units. The slice is sorted so
// iteration order is deterministic across runs.
func (g *Game) UnitIDs() []uint32 {
	ids := make([]uint32, 0, len(g.units))
	for id := range g.units {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// UnitCount returns the number of live units.
func (g *Game) UnitCount() int { return len(g.units) }

// BuildingCount returns the number of buildings.
func (g *Game) BuildingCount() int { return len(g.buildings) }
