package automaton

import (
	"errors"
	"fmt"
)

var (
	// ErrNilState is returned when registering a nil state.
	ErrNilState = errors.New("state is nil")

	// ErrUnknownState is returned when an id does not name a registered state.
	ErrUnknownState = errors.New("unknown state")

	// ErrDuplicateInitial is returned when a second state is marked initial.
	ErrDuplicateInitial = errors.New("an initial state is already registered")

	// ErrBlocked matches every *BlockedError.
	ErrBlocked = errors.New("transition blocked")
)

// BlockedError reports an event that could not fire from the current state.
// From is empty when the automaton had no current state.
type BlockedError struct {
	Event string
	From  string
}

func (e *BlockedError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("event '%s' blocked: no current state", e.Event)
	}
	return fmt.Sprintf("event '%s' impossible from state '%s'", e.Event, e.From)
}

// Is lets errors.Is(err, ErrBlocked) match.
func (e *BlockedError) Is(target error) bool {
	return target == ErrBlocked
}
