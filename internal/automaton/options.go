package automaton

import "log/slog"

// Option configures an Automaton.
type Option func(*Automaton)

// WithLogger sets the logger used for transition reports.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Automaton) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithLogHandler sets the log handler used for transition reports.
func WithLogHandler(handler slog.Handler) Option {
	return func(a *Automaton) {
		if handler != nil {
			a.logger = slog.New(handler)
		}
	}
}
