// Package components defines ECS components for the simulation.
package components

import "math"

// Position represents an entity's world position. Y is derived from the
// terrain height field and never gates economy decisions.
type Position struct {
	X, Y, Z float64
}

// DistanceTo returns the horizontal (XZ-plane) distance to other.
func (p Position) DistanceTo(other Position) float64 {
	dx := other.X - p.X
	dz := other.Z - p.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// Unit holds unit-specific data.
type Unit struct {
	ID          uint32
	TypeIndex   int     // index into config.UnitTypes
	Speed       float64 // world units per second
	MiningRange float64
	CanMine     bool
	CanBuild    bool
}

// Building holds building-specific data.
type Building struct {
	ID              uint32
	TypeIndex       int // index into config.BuildingTypes
	Complete        bool
	GeneratesEnergy bool
	ConsumptionRate float64 // materials per second when generating
}
