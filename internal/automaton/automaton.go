package automaton

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

// Automaton is the generic engine: registered states, the transition audit
// list and the current state pointer.
type Automaton struct {
	logger      *slog.Logger
	states      map[StateID]*State
	transitions []Transition
	current     *State
}

// New creates an empty automaton with no current state.
func New(opts ...Option) *Automaton {
	a := &Automaton{
		logger: slog.Default().WithGroup("automaton"),
		states: make(map[StateID]*State),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AddState registers a state by id. Registering an id twice replaces the
// earlier state. An initial state becomes current immediately; registering a
// second initial state under a different id fails with ErrDuplicateInitial.
func (a *Automaton) AddState(s *State) error {
	if s == nil {
		return ErrNilState
	}
	if s.transitions == nil {
		s.transitions = make(map[string]StateID)
	}

	if s.IsInitial() {
		for id, existing := range a.states {
			if id != s.ID && existing.IsInitial() {
				return fmt.Errorf("%w: %s, rejected %s", ErrDuplicateInitial, existing, s)
			}
		}
	}

	a.states[s.ID] = s

	switch {
	case s.IsInitial():
		a.current = s
		a.logger.Debug("Initial state set", "state", s.Label)
	case a.current != nil && a.current.ID == s.ID:
		// keep the pointer on the replacement
		a.current = s
	}
	return nil
}

// AddTransition registers event as an edge from src to dst. Both ids must be
// registered; otherwise nothing is mutated. A second registration of the same
// event on src replaces the destination and appends a new audit record.
func (a *Automaton) AddTransition(src, dst StateID, event string) error {
	srcState, srcOK := a.states[src]
	dstState, dstOK := a.states[dst]
	if !srcOK || !dstOK {
		a.logger.Error("Transition references an unregistered state",
			"source", src, "destination", dst, "event", event)
		return fmt.Errorf("%w: source %d or destination %d", ErrUnknownState, src, dst)
	}

	a.transitions = append(a.transitions, Transition{
		Source:      srcState,
		Destination: dstState,
		Event:       event,
	})
	srcState.transitions[event] = dst
	return nil
}

// Fire moves the current state along the edge labeled event. On failure the
// returned error is a *BlockedError and no state is mutated.
func (a *Automaton) Fire(event string) (Transition, error) {
	if a.current == nil {
		a.logger.Warn("Event blocked, no current state", "event", event)
		return Transition{}, &BlockedError{Event: event}
	}

	dstID, ok := a.current.Next(event)
	if !ok {
		a.logger.Warn("Event blocked", "event", event, "state", a.current.Label)
		return Transition{}, &BlockedError{Event: event, From: a.current.Label}
	}

	// ids are never unregistered and AddTransition checks both ends, so the
	// lookup always hits. A replaced id resolves to the replacement.
	dst := a.states[dstID]

	taken := Transition{Source: a.current, Destination: dst, Event: event}
	a.current = dst
	a.logger.Debug("Transition", "event", event, "from", taken.Source.Label, "to", dst.Label)
	return taken, nil
}

// CanFire reports whether event is accepted from the current state.
func (a *Automaton) CanFire(event string) bool {
	if a.current == nil {
		return false
	}
	_, ok := a.current.Next(event)
	return ok
}

// ForceState is the administrative jump: it points the current state at id
// without consulting the transition table and without recording an audit
// entry. It only fails for an unregistered id.
func (a *Automaton) ForceState(id StateID) error {
	s, ok := a.states[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownState, id)
	}
	if a.current != s {
		from := "<none>"
		if a.current != nil {
			from = a.current.Label
		}
		a.logger.Debug("Forced state", "from", from, "to", s.Label)
	}
	a.current = s
	return nil
}

// Current returns the current state, or nil before an initial state exists.
func (a *Automaton) Current() *State {
	return a.current
}

// State looks up a registered state.
func (a *Automaton) State(id StateID) (*State, bool) {
	s, ok := a.states[id]
	return s, ok
}

// States returns every registered state, sorted by id.
func (a *Automaton) States() []*State {
	ids := slices.Sorted(maps.Keys(a.states))
	out := make([]*State, 0, len(ids))
	for _, id := range ids {
		out = append(out, a.states[id])
	}
	return out
}

// Transitions returns a copy of the audit list in creation order.
func (a *Automaton) Transitions() []Transition {
	return slices.Clone(a.transitions)
}
