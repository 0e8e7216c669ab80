package automaton

import (
	"fmt"
	"slices"
)

// StateID uniquely identifies a state within one automaton.
type StateID int

// Role tags a state. Only RoleInitial changes engine behavior: registering an
// initial state seeds the current state.
type Role string

const (
	RoleInitial Role = "initial"
	RoleFinal   Role = "final"
	RoleNormal  Role = "normal"
	RoleSink    Role = "sink"
)

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleInitial, RoleFinal, RoleNormal, RoleSink:
		return true
	default:
		return false
	}
}

// State is a named node of the graph. Its id, label and role never change
// after construction; the outgoing table is filled by Automaton.AddTransition.
type State struct {
	ID    StateID
	Label string
	Role  Role

	// event name -> destination id
	transitions map[string]StateID
}

// NewState creates a state. An empty role defaults to RoleNormal.
func NewState(id StateID, label string, role Role) *State {
	if role == "" {
		role = RoleNormal
	}
	return &State{
		ID:          id,
		Label:       label,
		Role:        role,
		transitions: make(map[string]StateID),
	}
}

// IsInitial reports whether the state seeds the automaton's current state.
func (s *State) IsInitial() bool {
	return s.Role == RoleInitial
}

// Next returns the destination registered for event, if any.
func (s *State) Next(event string) (StateID, bool) {
	dst, ok := s.transitions[event]
	return dst, ok
}

// Events returns the events accepted from this state, sorted by name.
func (s *State) Events() []string {
	events := make([]string, 0, len(s.transitions))
	for evt := range s.transitions {
		events = append(events, evt)
	}
	slices.Sort(events)
	return events
}

// String returns a short representation like "0:DISPONIBLE [initial]".
func (s *State) String() string {
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%d:%s [%s]", s.ID, s.Label, s.Role)
}
