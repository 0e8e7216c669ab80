package facility

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/atlanticdynamic/parklynx/internal/lot"
	"github.com/atlanticdynamic/parklynx/internal/server/finitestate"
	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-loglater"
)

// Kind is the type of request an Operation carries.
type Kind string

const (
	KindEntry Kind = "entry"
	KindExit  Kind = "exit"
)

// Operation is one entry or exit request and its outcome. Log lines written
// through its logger are kept with it.
type Operation struct {
	ID        uuid.UUID
	Kind      Kind
	CreatedAt time.Time

	fsm          finitestate.Machine
	logger       *slog.Logger
	logCollector *loglater.LogCollector

	mu      sync.RWMutex
	vehicle lot.Kind
	slot    int
	fee     float64
	err     error
}

func newOperation(kind Kind, handler slog.Handler) (*Operation, error) {
	id := uuid.Must(uuid.NewV6())

	sm, err := finitestate.NewOperation(handler)
	if err != nil {
		return nil, fmt.Errorf("%s failed to create state machine: %w", id, err)
	}

	collector := loglater.NewLogCollector(handler)
	op := &Operation{
		ID:           id,
		Kind:         kind,
		CreatedAt:    time.Now(),
		fsm:          sm,
		logCollector: collector,
		logger:       slog.New(collector).With("operation", id, "kind", kind),
		slot:         -1,
	}
	op.logger.Debug("Operation created")
	return op, nil
}

// State returns the operation's lifecycle state.
func (o *Operation) State() string {
	return o.fsm.GetState()
}

// Err returns the error the operation ended with, if any.
func (o *Operation) Err() error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.err
}

// Slot returns the slot index involved, -1 when none was assigned.
func (o *Operation) Slot() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.slot
}

// Fee returns the amount charged on an exit.
func (o *Operation) Fee() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.fee
}

// Vehicle returns the kind of vehicle involved, empty when unknown.
func (o *Operation) Vehicle() lot.Kind {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.vehicle
}

// Logs returns the log lines recorded for this operation.
func (o *Operation) Logs() []LogEntry {
	records := o.logCollector.GetLogs()
	out := make([]LogEntry, 0, len(records))
	for _, rec := range records {
		out = append(out, LogEntry{
			Time:    rec.Time,
			Level:   rec.Level.String(),
			Message: rec.Message,
		})
	}
	return out
}

// PlayLogs replays the recorded log lines to handler.
func (o *Operation) PlayLogs(handler slog.Handler) error {
	return o.logCollector.PlayLogs(handler)
}

func (o *Operation) set(fn func(*Operation)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fn(o)
}

func (o *Operation) transition(state string) {
	if err := o.fsm.Transition(state); err != nil {
		o.logger.Error("Failed to transition operation", "state", state, "error", err)
	}
}

// LogEntry is one recorded log line.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// View is the JSON form of an Operation.
type View struct {
	ID        string     `json:"id"`
	Kind      Kind       `json:"kind"`
	State     string     `json:"state"`
	Vehicle   lot.Kind   `json:"vehicle,omitempty"`
	Slot      int        `json:"slot"`
	Fee       float64    `json:"fee"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	Logs      []LogEntry `json:"logs,omitempty"`
}

// View returns a consistent copy of the operation.
func (o *Operation) View() View {
	o.mu.RLock()
	v := View{
		ID:        o.ID.String(),
		Kind:      o.Kind,
		Vehicle:   o.vehicle,
		Slot:      o.slot,
		Fee:       o.fee,
		CreatedAt: o.CreatedAt,
	}
	if o.err != nil {
		v.Error = o.err.Error()
	}
	o.mu.RUnlock()

	v.State = o.State()
	v.Logs = o.Logs()
	return v
}
