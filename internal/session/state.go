package session

import "fmt"

// State is the lifecycle state of a session.
type State int

const (
	StateDeclaring State = iota
	StateResolving
	StateAssembled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDeclaring:
		return "Declaring"
	case StateResolving:
		return "Resolving"
	case StateAssembled:
		return "Assembled"
	case StateFailed:
		return "Failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateAssembled || s == StateFailed
}
