// Package facility runs the parking attendant inside the supervisor and
// serializes every request to it.
package facility

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/atlanticdynamic/parklynx/internal/automaton"
	"github.com/atlanticdynamic/parklynx/internal/lot"
	"github.com/atlanticdynamic/parklynx/internal/parking"
	"github.com/atlanticdynamic/parklynx/internal/server/finitestate"
	"github.com/robbyt/go-supervisor/supervisor"
)

// DefaultHistorySize is how many operations are kept when WithHistorySize is
// not given.
const DefaultHistorySize = 100

var (
	_ supervisor.Runnable  = (*Runner)(nil)
	_ supervisor.Stateable = (*Runner)(nil)
)

// Runner owns a lot.Attendant. All calls into the attendant, and through it
// the parking core, happen while holding mu.
type Runner struct {
	logger *slog.Logger
	fsm    finitestate.Machine

	mu        sync.Mutex
	attendant *lot.Attendant
	paceDelay time.Duration

	opsMu       sync.RWMutex
	ops         []*Operation
	historySize int

	runCtx    context.Context
	runCancel context.CancelFunc
	parentCtx context.Context
}

// NewRunner creates a Runner around attendant.
func NewRunner(attendant *lot.Attendant, opts ...Option) (*Runner, error) {
	if attendant == nil {
		return nil, errors.New("attendant cannot be nil")
	}

	r := &Runner{
		logger:      slog.Default().WithGroup("facility.Runner"),
		attendant:   attendant,
		historySize: DefaultHistorySize,
		parentCtx:   context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.runCtx, r.runCancel = context.WithCancel(r.parentCtx)

	sm, err := finitestate.New(r.logger.WithGroup("fsm").Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	r.fsm = sm

	return r, nil
}

// String implements the supervisor.Runnable interface
func (r *Runner) String() string {
	return "facility.Runner"
}

// Run implements the supervisor.Runnable interface
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Debug("Starting Runner")

	if err := r.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting state: %w", err)
	}

	runCtx := r.runCtx
	r.logger.Info("Facility open", "capacity", r.attendant.System().Capacity(), "pace_delay", r.paceDelay)

	if err := r.fsm.Transition(finitestate.StatusRunning); err != nil {
		return fmt.Errorf("failed to transition to running state: %w", err)
	}

	select {
	case <-ctx.Done():
		r.logger.Debug("Parent context canceled")
	case <-runCtx.Done():
		r.logger.Debug("Run context canceled")
	}
	r.runCancel()

	r.logger.Info("Runner shutting down")
	if r.fsm.GetState() != finitestate.StatusStopping {
		if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
			r.logger.Error("Failed to transition to stopping state", "error", err)
		}
	}

	// wait for an in-flight operation to finish
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.fsm.Transition(finitestate.StatusStopped); err != nil {
		return fmt.Errorf("failed to transition to stopped state: %w", err)
	}
	return nil
}

// Stop implements the supervisor.Runnable interface
func (r *Runner) Stop() {
	r.logger.Debug("Stopping Runner")
	if r.fsm.GetState() == finitestate.StatusRunning {
		if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
			r.logger.Error("Failed to transition to stopping state", "error", err)
		}
	}
	r.runCancel()
}

// GetState implements the supervisor.Stateable interface
func (r *Runner) GetState() string {
	return r.fsm.GetState()
}

// GetStateChan implements the supervisor.Stateable interface
func (r *Runner) GetStateChan(ctx context.Context) <-chan string {
	return r.fsm.GetStateChan(ctx)
}

// IsRunning implements the supervisor.Stateable interface
func (r *Runner) IsRunning() bool {
	return r.fsm.GetState() == finitestate.StatusRunning
}

// Enter admits one vehicle. The returned Operation is non-nil whenever the
// request was accepted for processing, including refusals.
func (r *Runner) Enter(ctx context.Context, subscriber bool) (*Operation, error) {
	op, err := r.begin(KindEntry)
	if err != nil {
		return nil, err
	}
	op.set(func(o *Operation) { o.vehicle = lot.KindOf(subscriber) })

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.IsRunning() {
		return op, r.finish(op, ErrNotRunning)
	}

	op.transition(finitestate.OpRunning)
	op.logger.Info("Entry requested", "vehicle", lot.KindOf(subscriber))

	slot, err := r.attendant.Admit(subscriber, r.pacer(ctx))
	if err == nil {
		op.set(func(o *Operation) { o.slot = slot })
		op.logger.Info("Vehicle admitted", "slot", slot)
	}
	return op, r.finish(op, err)
}

// Exit lets the vehicle on slot out, or a random parked vehicle when slot is
// nil.
func (r *Runner) Exit(ctx context.Context, slot *int) (*Operation, error) {
	op, err := r.begin(KindExit)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.IsRunning() {
		return op, r.finish(op, ErrNotRunning)
	}

	op.transition(finitestate.OpRunning)

	var receipt lot.Receipt
	if slot == nil {
		op.logger.Info("Exit requested", "slot", "random")
		receipt, err = r.attendant.ReleaseRandom(ctx, r.pacer(ctx))
	} else {
		op.logger.Info("Exit requested", "slot", *slot)
		receipt, err = r.attendant.Release(ctx, *slot, r.pacer(ctx))
	}
	switch {
	case err == nil:
		op.set(func(o *Operation) {
			o.slot = receipt.Slot.Index
			o.vehicle = receipt.Slot.Kind
			o.fee = receipt.Fee
		})
		op.logger.Info("Vehicle left", "slot", receipt.Slot.Index, "fee", receipt.Fee, "duration", receipt.Duration)
	case slot != nil:
		op.set(func(o *Operation) { o.slot = *slot })
	}
	return op, r.finish(op, err)
}

// Snapshot returns the facility status, slot map and state history.
func (r *Runner) Snapshot() lot.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attendant.Snapshot()
}

// Render draws the facility graph with fn while holding the lock. The
// automaton passed to fn must not be retained.
func (r *Runner) Render(fn func(*automaton.Automaton) string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.attendant.System().Automaton())
}

// Operations returns the retained operations, oldest first.
func (r *Runner) Operations() []*Operation {
	r.opsMu.RLock()
	defer r.opsMu.RUnlock()
	out := make([]*Operation, len(r.ops))
	copy(out, r.ops)
	return out
}

// Operation looks up a retained operation by id.
func (r *Runner) Operation(id string) (*Operation, bool) {
	r.opsMu.RLock()
	defer r.opsMu.RUnlock()
	for _, op := range r.ops {
		if op.ID.String() == id {
			return op, true
		}
	}
	return nil, false
}

func (r *Runner) begin(kind Kind) (*Operation, error) {
	if !r.IsRunning() {
		return nil, ErrNotRunning
	}

	op, err := newOperation(kind, r.logger.Handler())
	if err != nil {
		return nil, err
	}

	r.opsMu.Lock()
	r.ops = append(r.ops, op)
	if over := len(r.ops) - r.historySize; over > 0 {
		r.ops = r.ops[over:]
	}
	r.opsMu.Unlock()
	return op, nil
}

func (r *Runner) finish(op *Operation, err error) error {
	op.set(func(o *Operation) { o.err = err })

	switch {
	case err == nil:
		op.transition(finitestate.OpCompleted)
	case IsRefusal(err):
		op.logger.Info("Operation refused", "error", err)
		op.transition(finitestate.OpRefused)
	default:
		op.logger.Error("Operation failed", "error", err)
		op.transition(finitestate.OpFailed)
	}
	return err
}

// IsRefusal reports whether err is a normal business refusal rather than a
// failure.
func IsRefusal(err error) bool {
	return errors.Is(err, parking.ErrFull) ||
		errors.Is(err, parking.ErrEmpty) ||
		errors.Is(err, lot.ErrSlotEmpty) ||
		errors.Is(err, lot.ErrSlotOutOfRange)
}

// pacer waits paceDelay after each step, or less when ctx or the runner is
// cancelled. The remaining steps then run without pause.
func (r *Runner) pacer(ctx context.Context) parking.PaceFunc {
	if r.paceDelay <= 0 {
		return nil
	}
	return func() {
		timer := time.NewTimer(r.paceDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		case <-r.runCtx.Done():
		}
	}
}
