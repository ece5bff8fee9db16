package systems

import "github.com/emberworks/ember/components"

// BuildOutcome reports what a construction tick did.
type BuildOutcome uint8

const (
	// BuildCompleted means the reserved cost was consumed and the
	// building is finished.
	BuildCompleted BuildOutcome = iota
	// BuildFailed means the reservation no longer covered the cost,
	// which indicates an accounting bug; the caller must cancel.
	BuildFailed
)

// StartConstruction reserves the full energy cost up front. Returns a
// retryable failure when the source cannot cover the cost; nothing is
// debited in that case. A second start while already constructing fails
// without side effects.
func StartConstruction(a *components.Action, src EnergySource, buildingEntity uint32, cost float64) Result {
	if a.Active() {
		return Fail("Construction already in progress", false)
	}
	if cost < 0 {
		return Fail("invalid construction cost", false)
	}
	a.Kind = components.ActionBuild
	a.Build = components.BuildState{BuildingEntity: buildingEntity, Cost: cost}
	if cost > 0 && !Reserve(a, src, cost) {
		a.Clear()
		return Fail("Insufficient energy for construction", true)
	}
	return OK()
}

// StepConstruction consumes the reservation. Construction is modeled as
// a single-tick reservation consumption: the multi-frame part of the
// build is the wait for the reservation to be affordable, not the
// execution itself.
func StepConstruction(a *components.Action) BuildOutcome {
	if a.Build.Cost > 0 && !UseReserved(a, a.Build.Cost) {
		return BuildFailed
	}
	a.Build.Progress = 1
	return BuildCompleted
}

// CancelConstruction releases the full reservation back to its source
// and resets progress to zero.
func CancelConstruction(a *components.Action, src EnergySource) {
	Release(a, src)
	a.Build.Progress = 0
	a.Clear()
}
