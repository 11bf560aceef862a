package async

// State is the lifecycle state of a Task.
type State int

const (
	// Idle means no invocation has started yet.
	Idle State = iota
	// Pending means an invocation is in flight.
	Pending
	// SettledOk means the last invocation succeeded.
	SettledOk
	// SettledError means the last invocation failed.
	SettledError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case SettledOk:
		return "settled_ok"
	case SettledError:
		return "settled_error"
	default:
		return "unknown"
	}
}
