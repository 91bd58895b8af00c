// Package game runs one traversal of a map or event: it prepares the
// session, steps through cells, resolves battles and rewards, and decides
// when to stop. Event-specific behaviour lives in Strategy implementations.
package game

// State is the lifecycle stage of an engine run.
type State int

const (
	StateNew State = iota
	StatePreparing
	StateTraversing
	StateTerminated
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StatePreparing:
		return "preparing"
	case StateTraversing:
		return "traversing"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Status is the outcome of a run. Once a session leaves StatusNormal its
// status never changes again.
type Status int

const (
	StatusNormal Status = iota
	StatusDefeated
	StatusTeamStatusBad
	// StatusAborted means a stage failed after the session started.
	StatusAborted
	// StatusNotStarted means the session could not be set up.
	StatusNotStarted
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusDefeated:
		return "defeated"
	case StatusTeamStatusBad:
		return "team_status_bad"
	case StatusAborted:
		return "aborted"
	case StatusNotStarted:
		return "not_started"
	default:
		return "unknown"
	}
}

// PointKind classifies the cell the session just moved onto.
type PointKind int

const (
	PointNone PointKind = iota
	PointBattle
	PointMaterial
)

// String returns a human-readable point kind.
func (k PointKind) String() string {
	switch k {
	case PointBattle:
		return "battle"
	case PointMaterial:
		return "material"
	default:
		return "none"
	}
}

// Gates selects which team checks stop a run before the next step.
type Gates uint8

const (
	// GateTeamStatus stops when any member can no longer fight.
	GateTeamStatus Gates = 1 << iota
	// GateAliveFloor stops when fewer than Config.MinAlive members can fight.
	GateAliveFloor

	GateBoth = GateTeamStatus | GateAliveFloor
)

// Has reports whether g includes gate.
func (g Gates) Has(gate Gates) bool { return g&gate != 0 }
