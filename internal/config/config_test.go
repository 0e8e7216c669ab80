package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atlanticdynamic/parklynx/internal/config/errz"
	"github.com/atlanticdynamic/parklynx/internal/config/logs"
	"github.com/atlanticdynamic/parklynx/internal/tariff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
version = "v1"

[logging]
format = "json"
level = "debug"

[facility]
capacity = 25
hourly_rate = 3.0

[tariff]
type = "linear"
base_fee = 2.0
rate = 1.5
unit = "1h"

[server]
listen = "127.0.0.1:9090"
drain_timeout = "2s"
pace_delay = "250ms"

[server.headers]
X-Facility = "north"
`

func TestNewConfigFromBytes(t *testing.T) {
	t.Parallel()

	t.Run("full document", func(t *testing.T) {
		cfg, err := NewConfigFromBytes([]byte(fullConfig))
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Equal(t, VersionLatest, cfg.Version)
		assert.Equal(t, logs.FormatJSON, cfg.Logging.Format)
		assert.Equal(t, logs.LevelDebug, cfg.Logging.Level)
		assert.Equal(t, 25, cfg.Facility.Capacity)
		assert.InDelta(t, 3.0, cfg.Facility.HourlyRate, 1e-9)
		assert.Equal(t, TariffLinear, cfg.Tariff.Type)
		assert.InDelta(t, 2.0, cfg.Tariff.BaseFee, 1e-9)
		assert.Equal(t, time.Hour, cfg.Tariff.Unit.AsDuration())
		assert.Equal(t, "127.0.0.1:9090", cfg.Server.Listen)
		assert.Equal(t, 2*time.Second, cfg.Server.DrainTimeout.AsDuration())
		assert.Equal(t, 250*time.Millisecond, cfg.Server.PaceDelay.AsDuration())
		assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout.AsDuration(), "absent key keeps default")
		assert.Equal(t, map[string]string{"X-Facility": "north"}, cfg.Server.Headers)
	})

	t.Run("defaults for absent sections", func(t *testing.T) {
		cfg, err := NewConfigFromBytes([]byte(`[facility]
capacity = 3
`))
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Equal(t, VersionLatest, cfg.Version)
		assert.Equal(t, 3, cfg.Facility.Capacity)
		assert.InDelta(t, 2.5, cfg.Facility.HourlyRate, 1e-9)
		assert.Equal(t, TariffLinear, cfg.Tariff.Type)
		assert.InDelta(t, tariff.DefaultBaseFee, cfg.Tariff.BaseFee, 1e-9)
		assert.InDelta(t, tariff.DefaultRate, cfg.Tariff.Rate, 1e-9)
		assert.Equal(t, DefaultListen, cfg.Server.Listen)
	})

	t.Run("zero base fee is kept", func(t *testing.T) {
		cfg, err := NewConfigFromBytes([]byte("[tariff]\nbase_fee = 0.0\n"))
		require.NoError(t, err)
		assert.Zero(t, cfg.Tariff.BaseFee)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := NewConfigFromBytes(nil)
		require.ErrorIs(t, err, errz.ErrFailedToLoadConfig)
	})

	t.Run("unsupported version", func(t *testing.T) {
		_, err := NewConfigFromBytes([]byte(`version = "v2"`))
		require.ErrorIs(t, err, errz.ErrUnsupportedConfigVer)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := NewConfigFromBytes([]byte("[facility]\nslots = 4\n"))
		require.ErrorIs(t, err, errz.ErrFailedToLoadConfig)
		assert.Contains(t, err.Error(), "slots")
	})

	t.Run("malformed toml", func(t *testing.T) {
		_, err := NewConfigFromBytes([]byte("[facility\ncapacity = 4"))
		require.ErrorIs(t, err, errz.ErrFailedToLoadConfig)
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := NewConfigFromBytes([]byte("[server]\npace_delay = \"soon\"\n"))
		require.ErrorIs(t, err, errz.ErrFailedToLoadConfig)
	})
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(dir, "parklynx.toml")
		require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0o644))

		cfg, err := NewConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Facility.Capacity)
	})

	t.Run("wrong extension", func(t *testing.T) {
		_, err := NewConfig(filepath.Join(dir, "parklynx.yaml"))
		require.ErrorIs(t, err, errz.ErrFailedToLoadConfig)
		assert.Contains(t, err.Error(), "only .toml")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewConfig(filepath.Join(dir, "missing.toml"))
		require.ErrorIs(t, err, errz.ErrFailedToLoadConfig)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("from reader", func(t *testing.T) {
		cfg, err := NewConfigFromReader(strings.NewReader(fullConfig))
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:9090", cfg.Server.Listen)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"zero capacity", func(c *Config) { c.Facility.Capacity = 0 }, errz.ErrInvalidValue},
		{"negative hourly rate", func(c *Config) { c.Facility.HourlyRate = -1 }, errz.ErrInvalidValue},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, logs.ErrInvalidLogLevel},
		{"unknown tariff", func(c *Config) { c.Tariff.Type = "flat" }, errz.ErrInvalidTariffType},
		{"negative rate", func(c *Config) { c.Tariff.Rate = -0.5 }, errz.ErrInvalidValue},
		{"zero unit", func(c *Config) { c.Tariff.Unit = 0 }, errz.ErrInvalidValue},
		{"script without source", func(c *Config) { c.Tariff.Type = TariffScript }, errz.ErrMissingRequiredField},
		{
			"script syntax error",
			func(c *Config) { c.Tariff.Type, c.Tariff.Code = TariffScript, "_ = (" },
			tariff.ErrCompilationFailed,
		},
		{"empty listen", func(c *Config) { c.Server.Listen = "" }, errz.ErrMissingRequiredField},
		{"negative pace", func(c *Config) { c.Server.PaceDelay = -1 }, errz.ErrInvalidValue},
		{
			"bad header name",
			func(c *Config) { c.Server.Headers = map[string]string{"Bad Header": "x"} },
			errz.ErrInvalidHeader,
		},
		{
			"bad header value",
			func(c *Config) { c.Server.Headers = map[string]string{"X-Ok": "line\nbreak"} },
			errz.ErrInvalidHeader,
		},
		{"wrong version", func(c *Config) { c.Version = "v0" }, errz.ErrUnsupportedConfigVer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, errz.ErrFailedToValidateConfig)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, NewDefault().Validate())
	})

	t.Run("errors are joined", func(t *testing.T) {
		cfg := NewDefault()
		cfg.Facility.Capacity = -3
		cfg.Server.Listen = ""
		err := cfg.Validate()
		require.ErrorIs(t, err, errz.ErrInvalidValue)
		require.ErrorIs(t, err, errz.ErrMissingRequiredField)
	})

	t.Run("valid script tariff", func(t *testing.T) {
		cfg := NewDefault()
		cfg.Tariff.Type = TariffScript
		cfg.Tariff.Code = "_ = 1.0"
		require.NoError(t, cfg.Validate())

		calc, err := cfg.Tariff.NewCalculator(nil)
		require.NoError(t, err)
		fee, err := calc.Fee(t.Context(), tariff.Stay{})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, fee, 1e-9)
	})
}

func TestValidate_Interpolation(t *testing.T) {
	t.Setenv("PARKLYNX_TEST_PORT", "7070")
	t.Setenv("PARKLYNX_TEST_SITE", "south")

	cfg, err := NewConfigFromBytes([]byte(`
[server]
listen = ":${PARKLYNX_TEST_PORT}"

[server.headers]
X-Site = "${PARKLYNX_TEST_SITE}"
X-Region = "${PARKLYNX_TEST_REGION:eu}"
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":7070", cfg.Server.Listen)
	assert.Equal(t, "south", cfg.Server.Headers["X-Site"])
	assert.Equal(t, "eu", cfg.Server.Headers["X-Region"])
}

func TestValidate_InterpolationMissing(t *testing.T) {
	cfg := NewDefault()
	cfg.Server.Listen = "${PARKLYNX_TEST_UNDEFINED}"
	require.ErrorIs(t, cfg.Validate(), errz.ErrFailedToValidateConfig)
}

func TestBuilders(t *testing.T) {
	t.Parallel()

	cfg := NewDefault()
	cfg.Facility.Capacity = 4
	cfg.Facility.HourlyRate = 1.25

	sys, err := cfg.Facility.NewSystem(nil)
	require.NoError(t, err)
	assert.Equal(t, 4, sys.Capacity())
	assert.InDelta(t, 1.25, sys.HourlyRate(), 1e-9)

	calc, err := cfg.Tariff.NewCalculator(nil)
	require.NoError(t, err)
	fee, err := calc.Fee(t.Context(), tariff.Stay{Duration: 10 * time.Second})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, fee, 1e-9)
}

func TestConfigTree(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfigFromBytes([]byte(fullConfig))
	require.NoError(t, err)

	out := cfg.String()
	for _, want := range []string{
		"Parklynx Config (v1)",
		"Logging",
		"Capacity: 25",
		"Tariff",
		"Rate: 1.50 per 1h0m0s",
		"127.0.0.1:9090",
		"Pace delay: 250ms",
		"X-Facility: north",
	} {
		assert.Contains(t, out, want)
	}

	cfg.Tariff.Type = TariffScript
	cfg.Tariff.URI = "file:///etc/parklynx/fee.star"
	assert.Contains(t, cfg.String(), "fee.star")
}

func TestDuration(t *testing.T) {
	t.Parallel()

	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.AsDuration())
	assert.InDelta(t, 90.0, d.Seconds(), 1e-9)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	require.Error(t, d.UnmarshalText([]byte("ninety")))
	assert.Equal(t, FromDuration(90*time.Second), d, "failed parse leaves value untouched")

	_, err = ParseDuration("")
	require.Error(t, err)
}
