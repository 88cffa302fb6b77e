package app

// State represents the current application state.
type State int

const (
	StateIdle       State = iota // No command in flight
	StateProcessing              // A command is running; new input is queued
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProcessing:
		return "processing"
	default:
		return "unknown"
	}
}
