// Package automaton implements a small event-driven finite state machine.
//
// An Automaton owns a set of states keyed by id, an append-only list of
// transition records and a single current state. States are registered once
// during construction, transitions are registered against registered ids, and
// the current state only moves through Fire or the administrative ForceState.
//
// An Automaton is not safe for concurrent use. Callers that share one across
// goroutines must serialize every call behind a single lock.
package automaton
