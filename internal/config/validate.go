package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/atlanticdynamic/parklynx/internal/config/errz"
	"github.com/atlanticdynamic/parklynx/internal/interpolation"
	"golang.org/x/net/http/httpguts"
)

// Validate expands environment references in tagged fields, then checks
// every section. All problems are returned joined.
func (c *Config) Validate() error {
	var errs []error

	if err := interpolation.InterpolateStruct(c); err != nil {
		errs = append(errs, fmt.Errorf("interpolation failed: %w", err))
	}

	if c.Version != VersionLatest {
		errs = append(errs, fmt.Errorf("%w: %s", errz.ErrUnsupportedConfigVer, c.Version))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	if err := c.Facility.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("facility: %w", err))
	}
	if err := c.Tariff.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tariff: %w", err))
	}
	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", errz.ErrFailedToValidateConfig, errors.Join(errs...))
	}
	return nil
}

// Validate checks the [facility] section.
func (f *Facility) Validate() error {
	var errs []error
	if f.Capacity < 1 {
		errs = append(errs, fmt.Errorf("%w: capacity must be at least 1, got %d", errz.ErrInvalidValue, f.Capacity))
	}
	if !validAmount(f.HourlyRate) {
		errs = append(errs, fmt.Errorf("%w: hourly_rate %v", errz.ErrInvalidValue, f.HourlyRate))
	}
	return errors.Join(errs...)
}

// Validate checks the [tariff] section. A script tariff is compiled.
func (t *Tariff) Validate() error {
	var errs []error

	switch t.Type {
	case TariffLinear:
		if !validAmount(t.BaseFee) {
			errs = append(errs, fmt.Errorf("%w: base_fee %v", errz.ErrInvalidValue, t.BaseFee))
		}
		if !validAmount(t.Rate) {
			errs = append(errs, fmt.Errorf("%w: rate %v", errz.ErrInvalidValue, t.Rate))
		}
		if t.Unit <= 0 {
			errs = append(errs, fmt.Errorf("%w: unit must be positive, got %s", errz.ErrInvalidValue, t.Unit))
		}
	case TariffScript:
		if t.Code == "" && t.URI == "" {
			errs = append(errs, fmt.Errorf("%w: code or uri", errz.ErrMissingRequiredField))
		}
		if t.Timeout < 0 {
			errs = append(errs, fmt.Errorf("%w: negative timeout %s", errz.ErrInvalidValue, t.Timeout))
		}
		if len(errs) == 0 {
			if _, err := t.NewCalculator(nil); err != nil {
				errs = append(errs, err)
			}
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", errz.ErrInvalidTariffType, t.Type))
	}

	return errors.Join(errs...)
}

// Validate checks the [server] section.
func (s *Server) Validate() error {
	var errs []error

	if s.Listen == "" {
		errs = append(errs, fmt.Errorf("%w: listen", errz.ErrMissingRequiredField))
	}
	if s.DrainTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: negative drain_timeout %s", errz.ErrInvalidValue, s.DrainTimeout))
	}
	if s.ReadTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: negative read_timeout %s", errz.ErrInvalidValue, s.ReadTimeout))
	}
	if s.PaceDelay < 0 {
		errs = append(errs, fmt.Errorf("%w: negative pace_delay %s", errz.ErrInvalidValue, s.PaceDelay))
	}
	for name, value := range s.Headers {
		if !httpguts.ValidHeaderFieldName(name) {
			errs = append(errs, fmt.Errorf("%w: name %q", errz.ErrInvalidHeader, name))
		}
		if !httpguts.ValidHeaderFieldValue(value) {
			errs = append(errs, fmt.Errorf("%w: value for %q", errz.ErrInvalidHeader, name))
		}
	}

	return errors.Join(errs...)
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
