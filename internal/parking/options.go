package parking

import "log/slog"

// DefaultHourlyRate is the rate stored when WithHourlyRate is not given.
const DefaultHourlyRate = 2.5

// Option configures a System.
type Option func(*System)

// WithLogger sets a custom logger for the System.
func WithLogger(logger *slog.Logger) Option {
	return func(s *System) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLogHandler sets a custom log handler for the System.
func WithLogHandler(handler slog.Handler) Option {
	return func(s *System) {
		if handler != nil {
			s.logger = slog.New(handler)
		}
	}
}

// WithHourlyRate stores the facility's hourly rate. The rate is informational:
// fees are supplied by the caller on each exit.
func WithHourlyRate(rate float64) Option {
	return func(s *System) {
		s.hourlyRate = rate
	}
}
