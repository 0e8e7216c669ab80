package facility

import (
	"context"
	"log/slog"
	"time"
)

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets a custom logger for the Runner instance.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLogHandler sets a custom log handler for the Runner instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Runner) {
		if handler != nil {
			r.logger = slog.New(handler)
		}
	}
}

// WithContext sets a custom parent context for the Runner instance.
func WithContext(ctx context.Context) Option {
	return func(r *Runner) {
		r.parentCtx = ctx
	}
}

// WithPaceDelay sets the pause between two steps of an entry or exit.
func WithPaceDelay(d time.Duration) Option {
	return func(r *Runner) {
		if d >= 0 {
			r.paceDelay = d
		}
	}
}

// WithHistorySize sets how many finished operations are kept in memory.
func WithHistorySize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.historySize = n
		}
	}
}
