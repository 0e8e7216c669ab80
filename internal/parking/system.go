package parking

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/atlanticdynamic/parklynx/internal/automaton"
)

// PaceFunc is invoked synchronously after each successful step of an entry or
// exit sequence. The next step fires only once it returns.
type PaceFunc func()

// System is the parking facility: capacity, counters and the control-flow
// automaton.
type System struct {
	logger *slog.Logger
	fsm    *automaton.Automaton

	total      int
	free       int
	hourlyRate float64

	revenue     float64
	visitors    int
	subscribers int
}

// New creates a facility with capacity slots, all free, with the automaton
// on DISPONIBLE.
func New(capacity int, opts ...Option) (*System, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	s := &System{
		logger:     slog.Default().WithGroup("parking"),
		total:      capacity,
		free:       capacity,
		hourlyRate: DefaultHourlyRate,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.fsm = automaton.New(automaton.WithLogger(s.logger.WithGroup("fsm")))
	if err := buildGraph(s.fsm); err != nil {
		return nil, fmt.Errorf("failed to build facility graph: %w", err)
	}

	s.logger.Debug("Facility initialized", "capacity", capacity, "hourly_rate", s.hourlyRate)
	return s, nil
}

// Enter admits one vehicle. The visitor or subscriber lifetime counter is
// incremented even when the entry is refused. With no free slot the entry is
// refused with ErrFull and the automaton is moved to COMPLET if it is not
// already there.
func (s *System) Enter(subscriber bool, pace PaceFunc) error {
	if subscriber {
		s.subscribers++
	} else {
		s.visitors++
	}
	logger := s.logger.With("subscriber", subscriber)

	if s.free == 0 {
		logger.Info("Entry refused, facility full")
		if s.currentID() != StateFull {
			if _, err := s.fsm.Fire(EventFacilityFull); err != nil {
				return fmt.Errorf("%w: %w: %w", ErrFull, ErrOutOfSync, err)
			}
		}
		return ErrFull
	}

	// the automaton may rest on STATIONNEMENT after a previous entry, or on
	// COMPLET after a refusal
	if id := s.currentID(); id == StateParked || id == StateFull {
		if err := s.fsm.ForceState(StateAvailable); err != nil {
			return fmt.Errorf("%w: %w", ErrOutOfSync, err)
		}
	}

	steps := []string{EventDetectEntry, EventReadPlate, EventAccessGranted, EventVehicleEntered}
	for _, evt := range steps {
		if err := s.step(evt, pace); err != nil {
			return err
		}
	}

	s.free--
	logger.Info("Vehicle parked", "free_slots", s.free)

	if s.free == 0 {
		if err := s.fsm.ForceState(StateAvailable); err != nil {
			return fmt.Errorf("%w: %w", ErrOutOfSync, err)
		}
		if _, err := s.fsm.Fire(EventFacilityFull); err != nil {
			return fmt.Errorf("%w: %w", ErrOutOfSync, err)
		}
		logger.Info("Facility is now full")
	}
	return nil
}

// Exit lets one vehicle out. Subscribers leave for free; visitors pay fee,
// which is added to the accrued revenue. Exit is refused with ErrEmpty when
// no slot is occupied, and with ErrInvalidFee for a negative, NaN or infinite visitor
// fee; a refused exit mutates nothing.
func (s *System) Exit(subscriber bool, pace PaceFunc, fee float64) error {
	if s.free >= s.total {
		s.logger.Warn("Exit refused, no vehicle parked", "subscriber", subscriber)
		return ErrEmpty
	}
	if !subscriber && (math.IsNaN(fee) || math.IsInf(fee, 0) || fee < 0) {
		return fmt.Errorf("%w: %v", ErrInvalidFee, fee)
	}
	logger := s.logger.With("subscriber", subscriber)

	// exits always depart from a parked vehicle
	if err := s.fsm.ForceState(StateParked); err != nil {
		return fmt.Errorf("%w: %w", ErrOutOfSync, err)
	}

	if err := s.step(EventExitRequested, pace); err != nil {
		return err
	}

	if subscriber {
		if err := s.step(EventSubscriberFree, pace); err != nil {
			return err
		}
		logger.Info("Subscriber exit, no charge")
	} else {
		if err := s.step(EventPaymentRequired, pace); err != nil {
			return err
		}
		s.revenue += fee
		logger.Info("Payment collected", "fee", fee, "revenue", s.revenue)
		if err := s.step(EventPaymentAccepted, pace); err != nil {
			return err
		}
	}

	if err := s.step(EventVehicleLeft, pace); err != nil {
		return err
	}
	s.free++
	logger.Info("Vehicle left", "free_slots", s.free)
	return nil
}

// Status returns a snapshot of the facility.
func (s *System) Status() Status {
	label := ""
	if cur := s.fsm.Current(); cur != nil {
		label = cur.Label
	}
	if s.free == 0 {
		label = LabelFull
	}

	return Status{
		StateLabel:      label,
		FreeSlots:       s.free,
		TotalSlots:      s.total,
		Revenue:         s.revenue,
		VisitorCount:    s.visitors,
		SubscriberCount: s.subscribers,
	}
}

// Capacity returns the total number of slots.
func (s *System) Capacity() int {
	return s.total
}

// HourlyRate returns the configured hourly rate.
func (s *System) HourlyRate() float64 {
	return s.hourlyRate
}

// Automaton exposes the control-flow graph for introspection and rendering.
func (s *System) Automaton() *automaton.Automaton {
	return s.fsm
}

// step fires one event of a sequence and paces on success. A blocked event
// aborts the sequence.
func (s *System) step(event string, pace PaceFunc) error {
	if _, err := s.fsm.Fire(event); err != nil {
		s.logger.Error("Sequence aborted", "event", event, "error", err)
		return fmt.Errorf("%w: %w", ErrOutOfSync, err)
	}
	if pace != nil {
		pace()
	}
	return nil
}

func (s *System) currentID() automaton.StateID {
	if cur := s.fsm.Current(); cur != nil {
		return cur.ID
	}
	return -1
}
