package finitestate

import (
	"log/slog"

	"github.com/robbyt/go-fsm"
)

// Operation states
const (
	OpPending   = "pending"
	OpRunning   = "running"
	OpCompleted = "completed" // terminal
	OpRefused   = "refused"   // terminal, capacity or empty-slot refusal
	OpFailed    = "failed"    // terminal
)

// OperationTransitions is the lifecycle of one entry or exit request.
var OperationTransitions = map[string][]string{
	OpPending:   {OpRunning, OpRefused, OpFailed},
	OpRunning:   {OpCompleted, OpRefused, OpFailed},
	OpCompleted: {},
	OpRefused:   {},
	OpFailed:    {},
}

// NewOperation creates an operation machine starting at OpPending.
func NewOperation(handler slog.Handler) (Machine, error) {
	return fsm.New(handler, OpPending, OperationTransitions)
}

// IsTerminal reports whether an operation in state can no longer change.
func IsTerminal(state string) bool {
	next, ok := OperationTransitions[state]
	return ok && len(next) == 0
}
