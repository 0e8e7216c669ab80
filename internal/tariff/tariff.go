// Package tariff computes the fee owed by a vehicle when it leaves the
// facility. The core facility accepts whatever fee the caller supplies; the
// calculators here are what the attendant and the servers use to produce it.
package tariff

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNegativeFee is returned when a policy produces a fee below zero.
	ErrNegativeFee = errors.New("tariff produced a negative fee")

	// ErrUnsupportedResult is returned when a script returns something that
	// is not a number.
	ErrUnsupportedResult = errors.New("unsupported script result")

	// ErrMissingCodeAndURI is returned when a script tariff has no source.
	ErrMissingCodeAndURI = errors.New("either code or uri must be provided")

	// ErrBothCodeAndURI is returned when a script tariff has two sources.
	ErrBothCodeAndURI = errors.New("code and uri are mutually exclusive")

	// ErrCompilationFailed wraps script compilation errors.
	ErrCompilationFailed = errors.New("script compilation failed")
)

// Stay describes one parked vehicle at the moment it asks to leave.
type Stay struct {
	Duration   time.Duration
	Subscriber bool
	HourlyRate float64
}

// Calculator turns a stay into a fee.
type Calculator interface {
	Fee(ctx context.Context, stay Stay) (float64, error)
	String() string
}

// evalData is the map handed to scripted policies under the "stay" key.
func (s Stay) evalData() map[string]any {
	return map[string]any{
		"seconds":     s.Duration.Seconds(),
		"hours":       s.Duration.Hours(),
		"subscriber":  s.Subscriber,
		"hourly_rate": s.HourlyRate,
	}
}

func checkFee(fee float64) (float64, error) {
	if fee < 0 {
		return 0, fmt.Errorf("%w: %v", ErrNegativeFee, fee)
	}
	return fee, nil
}
