// Package finitestate wraps go-fsm for the two lifecycles tracked by the
// server: runnables (new, booting, running, stopping, stopped) and facility
// operations (pending, running, then an outcome).
package finitestate

import (
	"context"
	"log/slog"

	"github.com/robbyt/go-fsm"
)

const (
	StatusNew      = fsm.StatusNew
	StatusBooting  = fsm.StatusBooting
	StatusRunning  = fsm.StatusRunning
	StatusStopping = fsm.StatusStopping
	StatusStopped  = fsm.StatusStopped
	StatusError    = fsm.StatusError
)

// TypicalTransitions is the runnable lifecycle.
var TypicalTransitions = fsm.TypicalTransitions

// Machine is the part of go-fsm used by runnables and operations.
type Machine interface {
	// Transition moves to state, failing when the edge is not allowed.
	Transition(state string) error

	// GetState returns the current state.
	GetState() string

	// GetStateChan emits every state change until ctx is done.
	GetStateChan(ctx context.Context) <-chan string
}

// New creates a runnable lifecycle machine starting at StatusNew.
func New(handler slog.Handler) (Machine, error) {
	return fsm.New(handler, StatusNew, TypicalTransitions)
}
