package koji

import "strings"

// TaskState is a numeric Koji task state, matching the hub's encoding.
type TaskState int

const (
	StateFree TaskState = iota
	StateOpen
	StateClosed
	StateCanceled
	StateAssigned
	StateFailed
)

var stateNames = map[string]TaskState{
	"FREE":     StateFree,
	"OPEN":     StateOpen,
	"CLOSED":   StateClosed,
	"CANCELED": StateCanceled,
	"ASSIGNED": StateAssigned,
	"FAILED":   StateFailed,
}

// StateFromName resolves a symbolic state name (any case) to a TaskState.
// The boolean is false for names the hub does not know about.
func StateFromName(name string) (TaskState, bool) {
	state, ok := stateNames[strings.ToUpper(name)]
	return state, ok
}

func (s TaskState) String() string {
	for name, state := range stateNames {
		if state == s {
			return name
		}
	}
	return "UNKNOWN"
}

// Terminal reports whether tasks in this state are finished running.
func (s TaskState) Terminal() bool {
	return s == StateClosed || s == StateCanceled || s == StateFailed
}
