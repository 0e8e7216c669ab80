// Package config loads and validates the parklynx TOML configuration.
package config

import (
	"log/slog"
	"time"

	"github.com/atlanticdynamic/parklynx/internal/config/logs"
	"github.com/atlanticdynamic/parklynx/internal/parking"
	"github.com/atlanticdynamic/parklynx/internal/tariff"
)

// VersionLatest is the only supported configuration version.
const VersionLatest = "v1"

// Defaults applied before a file is decoded.
const (
	DefaultCapacity     = 10
	DefaultListen       = ":8080"
	DefaultDrainTimeout = 5 * time.Second
	DefaultReadTimeout  = 10 * time.Second
)

// TariffType selects the fee calculator.
type TariffType string

const (
	TariffLinear TariffType = "linear"
	TariffScript TariffType = "script"
)

// Config is the complete parklynx configuration.
type Config struct {
	Version  string      `toml:"version"`
	Logging  logs.Config `toml:"logging"`
	Facility Facility    `toml:"facility"`
	Tariff   Tariff      `toml:"tariff"   env_interpolation:"yes"`
	Server   Server      `toml:"server"   env_interpolation:"yes"`
}

// Facility sizes the parking core.
type Facility struct {
	Capacity   int     `toml:"capacity"`
	HourlyRate float64 `toml:"hourly_rate"`
}

// Tariff configures the fee calculator used on exit.
type Tariff struct {
	Type    TariffType `toml:"type"`
	BaseFee float64    `toml:"base_fee"`
	Rate    float64    `toml:"rate"`
	Unit    Duration   `toml:"unit"`
	Code    string     `toml:"code"    env_interpolation:"no"`
	URI     string     `toml:"uri"     env_interpolation:"yes"`
	Timeout Duration   `toml:"timeout"`
}

// Server configures the HTTP and MCP surface of the serve command.
type Server struct {
	Listen       string            `toml:"listen"        env_interpolation:"yes"`
	DrainTimeout Duration          `toml:"drain_timeout"`
	ReadTimeout  Duration          `toml:"read_timeout"`
	PaceDelay    Duration          `toml:"pace_delay"`
	Headers      map[string]string `toml:"headers"       env_interpolation:"yes"`
}

// NewDefault returns a configuration with every default filled in.
func NewDefault() *Config {
	return &Config{
		Version: VersionLatest,
		Facility: Facility{
			Capacity:   DefaultCapacity,
			HourlyRate: parking.DefaultHourlyRate,
		},
		Tariff: Tariff{
			Type:    TariffLinear,
			BaseFee: tariff.DefaultBaseFee,
			Rate:    tariff.DefaultRate,
			Unit:    FromDuration(tariff.DefaultUnit),
			Timeout: FromDuration(tariff.DefaultEvalTimeout),
		},
		Server: Server{
			Listen:       DefaultListen,
			DrainTimeout: FromDuration(DefaultDrainTimeout),
			ReadTimeout:  FromDuration(DefaultReadTimeout),
		},
	}
}

// NewCalculator builds the fee calculator described by the [tariff] section.
func (t *Tariff) NewCalculator(handler slog.Handler) (tariff.Calculator, error) {
	switch t.Type {
	case TariffScript:
		return tariff.NewScript(t.Code, t.URI, t.Timeout.AsDuration(), handler)
	default:
		return &tariff.Linear{Base: t.BaseFee, Rate: t.Rate, Unit: t.Unit.AsDuration()}, nil
	}
}

// NewSystem builds the parking core described by the [facility] section.
func (f *Facility) NewSystem(handler slog.Handler) (*parking.System, error) {
	return parking.New(
		f.Capacity,
		parking.WithHourlyRate(f.HourlyRate),
		parking.WithLogHandler(handler),
	)
}
