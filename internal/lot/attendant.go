// Package lot tracks which slot each vehicle occupies on top of the parking
// core and turns stays into fees.
package lot

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/atlanticdynamic/parklynx/internal/parking"
	"github.com/atlanticdynamic/parklynx/internal/tariff"
)

// Kind tells visitors and subscribers apart.
type Kind string

const (
	KindVisitor    Kind = "visitor"
	KindSubscriber Kind = "subscriber"
)

// KindOf maps the core's subscriber flag to a Kind.
func KindOf(subscriber bool) Kind {
	if subscriber {
		return KindSubscriber
	}
	return KindVisitor
}

// Slot is one occupied parking place.
type Slot struct {
	Index     int       `json:"index"`
	Kind      Kind      `json:"kind"`
	EnteredAt time.Time `json:"entered_at"`
}

// Receipt is the outcome of a release.
type Receipt struct {
	Slot     Slot          `json:"slot"`
	Duration time.Duration `json:"duration"`
	Fee      float64       `json:"fee"`
}

// Snapshot bundles the core status with the slot map and state history.
type Snapshot struct {
	Status  parking.Status `json:"status"`
	Slots   []Slot         `json:"slots"`
	History []string       `json:"history"`
}

// Attendant assigns slots, timestamps stays and computes fees around a
// parking.System. It is not safe for concurrent use.
type Attendant struct {
	logger *slog.Logger
	sys    *parking.System
	tariff tariff.Calculator
	now    func() time.Time
	rand   *rand.Rand

	slots   []*Slot
	history []string
}

// New wraps sys. The core must have no parked vehicles: the slot map starts
// empty and the core counters cannot tell which kind each occupant is, so an
// occupied sys fails with ErrSlotsOutOfSync.
func New(sys *parking.System, opts ...Option) (*Attendant, error) {
	if n := sys.Status().Occupied(); n > 0 {
		return nil, fmt.Errorf("%w: core already reports %d parked vehicles", ErrSlotsOutOfSync, n)
	}

	a := &Attendant{
		logger: slog.Default().WithGroup("lot"),
		sys:    sys,
		tariff: tariff.NewLinear(),
		now:    time.Now,
		rand:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		slots:  make([]*Slot, sys.Capacity()),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.history = []string{sys.Status().StateLabel}
	return a, nil
}

// System returns the wrapped core.
func (a *Attendant) System() *parking.System {
	return a.sys
}

// Tariff returns the fee calculator in use.
func (a *Attendant) Tariff() tariff.Calculator {
	return a.tariff
}

// Admit lets one vehicle in and parks it on the lowest free slot, returning
// the slot index. A refused entry returns -1 and parking.ErrFull.
func (a *Attendant) Admit(subscriber bool, pace parking.PaceFunc) (int, error) {
	if a.sys.Status().StateLabel == parking.LabelAvailable {
		a.history = []string{parking.LabelAvailable}
	}

	err := a.sys.Enter(subscriber, a.tracking(pace))
	a.record(a.sys.Status().StateLabel)
	if err != nil {
		return -1, err
	}

	idx := slices.Index(a.slots, nil)
	if idx < 0 {
		return -1, ErrSlotsOutOfSync
	}
	a.slots[idx] = &Slot{Index: idx, Kind: KindOf(subscriber), EnteredAt: a.now()}
	a.logger.Debug("Slot assigned", "slot", idx, "kind", a.slots[idx].Kind)
	return idx, nil
}

// Release lets the vehicle on slot idx out, charging it through the tariff.
// The slot stays occupied when the core refuses the exit.
func (a *Attendant) Release(ctx context.Context, idx int, pace parking.PaceFunc) (Receipt, error) {
	if idx < 0 || idx >= len(a.slots) {
		return Receipt{}, fmt.Errorf("%w: %d", ErrSlotOutOfRange, idx)
	}
	slot := a.slots[idx]
	if slot == nil {
		return Receipt{}, fmt.Errorf("%w: %d", ErrSlotEmpty, idx)
	}

	subscriber := slot.Kind == KindSubscriber
	stay := tariff.Stay{
		Duration:   a.now().Sub(slot.EnteredAt),
		Subscriber: subscriber,
		HourlyRate: a.sys.HourlyRate(),
	}
	fee, err := a.tariff.Fee(ctx, stay)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to compute fee for slot %d: %w", idx, err)
	}
	if subscriber {
		fee = 0
	}

	err = a.sys.Exit(subscriber, a.tracking(pace), fee)
	a.record(a.sys.Status().StateLabel)
	if err != nil {
		return Receipt{}, err
	}

	a.slots[idx] = nil
	a.logger.Debug("Slot released", "slot", idx, "fee", fee, "duration", stay.Duration)
	return Receipt{Slot: *slot, Duration: stay.Duration, Fee: fee}, nil
}

// ReleaseRandom releases one occupied slot picked at random. With nothing
// parked it returns parking.ErrEmpty.
func (a *Attendant) ReleaseRandom(ctx context.Context, pace parking.PaceFunc) (Receipt, error) {
	occupied := a.Occupied()
	if len(occupied) == 0 {
		return Receipt{}, parking.ErrEmpty
	}
	pick := occupied[a.rand.IntN(len(occupied))]
	return a.Release(ctx, pick.Index, pace)
}

// Occupied returns the occupied slots ordered by index.
func (a *Attendant) Occupied() []Slot {
	var out []Slot
	for _, s := range a.slots {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// History returns the state labels visited since the last entry that started
// from DISPONIBLE, without consecutive repeats.
func (a *Attendant) History() []string {
	return slices.Clone(a.history)
}

// Snapshot returns the status, slot map and history together.
func (a *Attendant) Snapshot() Snapshot {
	return Snapshot{
		Status:  a.sys.Status(),
		Slots:   a.Occupied(),
		History: a.History(),
	}
}

func (a *Attendant) tracking(pace parking.PaceFunc) parking.PaceFunc {
	return func() {
		if cur := a.sys.Automaton().Current(); cur != nil {
			a.record(cur.Label)
		}
		if pace != nil {
			pace()
		}
	}
}

func (a *Attendant) record(label string) {
	if label == "" {
		return
	}
	if n := len(a.history); n > 0 && a.history[n-1] == label {
		return
	}
	a.history = append(a.history, label)
}
