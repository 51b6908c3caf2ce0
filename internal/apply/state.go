package apply

// State is the phase an apply run has reached. The run only ever moves
// forward; terminal states are Committed, RolledBack and Failed.
type State int

const (
	StateInit State = iota
	StateValidated
	StateSnapshotted
	StateActivating
	StateConfirmPending
	StateCommitted
	StateRolledBack
	StateFailed
)

// String returns a human-readable state name for logging.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateValidated:
		return "validated"
	case StateSnapshotted:
		return "snapshotted"
	case StateActivating:
		return "activating"
	case StateConfirmPending:
		return "confirm-pending"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled-back"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the run has finished, successfully or not.
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateRolledBack || s == StateFailed
}
