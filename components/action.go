package components

// ActionKind tags the Action variant record.
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionMove
	ActionMine
	ActionBuild
)

// String returns the action name used in transaction tags.
func (k ActionKind) String() string {
	switch k {
	case ActionMove:
		return "movement"
	case ActionMine:
		return "mining"
	case ActionBuild:
		return "construction"
	default:
		return "idle"
	}
}

// MoveState holds movement action state. Exactly one of Target /
// TargetEntity is the aim point; when TargetEntity is set the aim point
// is re-derived from its position every tick.
type MoveState struct {
	Target       Position
	TargetEntity uint32  // 0 = fixed-point movement
	StopRange    float64 // 0 = snap exactly onto Target on arrival
}

// MinePhase tracks the mining sub-state machine.
type MinePhase uint8

const (
	// MineApproaching means the miner is out of range and movement is
	// resolving first (pending-target pattern).
	MineApproaching MinePhase = iota
	// MineExtracting means the deposit is in range and being worked.
	MineExtracting
)

// MineState holds mining action state.
type MineState struct {
	DepositID int32 // -1 = no target
	Phase     MinePhase
	Extracted float64 // cumulative materials forwarded to the ledger
}

// BuildState holds construction action state. Progress is monotonic
// within a run and resets to zero on cancellation.
type BuildState struct {
	BuildingEntity uint32 // id of the building under construction
	Cost           float64
	Progress       float64 // in [0,1]
}

// Action is the single per-entity action record. The shared reservation
// protocol operates on ReservedEnergy; per-variant state lives in the
// variant structs and is processed by the per-variant step functions in
// the systems package.
type Action struct {
	Kind           ActionKind
	ReservedEnergy float64

	Move  MoveState
	Mine  MineState
	Build BuildState
}

// Active reports whether an action is in progress.
func (a *Action) Active() bool { return a.Kind != ActionNone }

// Progress returns the action's completion fraction where applicable.
// Movement and mining have no bounded progress measure and report 0.
func (a *Action) Progress() float64 {
	if a.Kind == ActionBuild {
		return a.Build.Progress
	}
	return 0
}

// Clear resets the record to idle. The caller must release any
// outstanding reservation first; Clear does not touch energy sources.
func (a *Action) Clear() {
	*a = Action{}
}
