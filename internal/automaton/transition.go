package automaton

import "fmt"

// Transition records an event-labeled edge between two registered states.
// The state pointers are non-owning; the automaton owns the states.
type Transition struct {
	Source      *State
	Destination *State
	Event       string
}

// String returns "event: SOURCE -> DESTINATION".
func (t Transition) String() string {
	src, dst := "<nil>", "<nil>"
	if t.Source != nil {
		src = t.Source.Label
	}
	if t.Destination != nil {
		dst = t.Destination.Label
	}
	return fmt.Sprintf("%s: %s -> %s", t.Event, src, dst)
}
