package systems

import "github.com/emberworks/ember/components"

// MoveOutcome reports what a movement tick did.
type MoveOutcome uint8

const (
	// MoveAdvanced means the mover made progress and is still en route.
	MoveAdvanced MoveOutcome = iota
	// MoveArrived means the destination condition was met this tick.
	MoveArrived
	// MoveBlocked means the energy debit failed; the mover stays at the
	// position reached by its last successful tick. Recoverable.
	MoveBlocked
)

// StartMove initializes a movement action toward a fixed point or a
// target entity with a stop range. Fails without side effects if the
// action record is already occupied.
func StartMove(a *components.Action, target components.Position, targetEntity uint32, stopRange float64) Result {
	if a.Active() {
		return Fail("action already active", false)
	}
	if stopRange < 0 {
		return Fail("invalid stop range", false)
	}
	a.Kind = components.ActionMove
	a.Move = components.MoveState{
		Target:       target,
		TargetEntity: targetEntity,
		StopRange:    stopRange,
	}
	return OK()
}

// StepMovement advances pos toward target by speed×dt, debiting
// energyPerUnit per world unit actually traveled. The debit happens
// before the position change, so a failed debit leaves the mover in
// place. For fixed-point movement the final tick snaps exactly onto the
// target; range-based movement stops short as soon as the distance is
// within stopRange and never snaps.
//
// Callers with a moving target entity must re-derive target from its
// position every tick before calling.
func StepMovement(src EnergySource, pos *components.Position, target components.Position, speed, stopRange, energyPerUnit, dt float64, terrain HeightField) MoveOutcome {
	dist := pos.DistanceTo(target)

	if stopRange > 0 && dist <= stopRange {
		return MoveArrived
	}

	step := speed * dt
	if step <= 0 {
		return MoveAdvanced
	}

	snap := stopRange == 0 && dist <= step
	travel := step
	if snap {
		travel = dist
	}

	cost := energyPerUnit * travel
	if !src.Withdraw(cost, "movement") {
		return MoveBlocked
	}

	if snap {
		pos.X = target.X
		pos.Z = target.Z
	} else {
		// Advance along the current direction to the target.
		inv := travel / dist
		pos.X += (target.X - pos.X) * inv
		pos.Z += (target.Z - pos.Z) * inv
	}
	if terrain != nil {
		pos.Y = terrain.HeightAt(pos.X, pos.Z)
	}

	if snap {
		return MoveArrived
	}
	if stopRange > 0 && pos.DistanceTo(target) <= stopRange {
		return MoveArrived
	}
	return MoveAdvanced
}
