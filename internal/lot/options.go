package lot

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/atlanticdynamic/parklynx/internal/tariff"
)

// Option configures an Attendant.
type Option func(*Attendant)

// WithLogger sets a custom logger for the Attendant.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Attendant) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithLogHandler sets a custom log handler for the Attendant.
func WithLogHandler(handler slog.Handler) Option {
	return func(a *Attendant) {
		if handler != nil {
			a.logger = slog.New(handler)
		}
	}
}

// WithTariff sets the fee calculator used on release. Defaults to the
// linear tariff.
func WithTariff(calc tariff.Calculator) Option {
	return func(a *Attendant) {
		if calc != nil {
			a.tariff = calc
		}
	}
}

// WithClock replaces time.Now for entry and exit timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Attendant) {
		if now != nil {
			a.now = now
		}
	}
}

// WithRand sets the random source used by ReleaseRandom.
func WithRand(r *rand.Rand) Option {
	return func(a *Attendant) {
		if r != nil {
			a.rand = r
		}
	}
}
