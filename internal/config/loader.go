package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atlanticdynamic/parklynx/internal/config/errz"
	"github.com/pelletier/go-toml/v2"
)

// NewConfig loads a configuration from a .toml file. The result is decoded
// but not yet validated.
func NewConfig(filePath string) (*Config, error) {
	if ext := filepath.Ext(filePath); ext != ".toml" {
		return nil, fmt.Errorf(
			"%w: unsupported config format: %s, only .toml is supported",
			errz.ErrFailedToLoadConfig,
			ext,
		)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrFailedToLoadConfig, err)
	}
	return NewConfigFromBytes(data)
}

// NewConfigFromReader loads a configuration from TOML read from reader.
func NewConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config data: %w", errz.ErrFailedToLoadConfig, err)
	}
	return NewConfigFromBytes(data)
}

// NewConfigFromBytes decodes TOML on top of NewDefault. Keys absent from the
// document keep their default; unknown keys are rejected.
func NewConfigFromBytes(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no source data provided", errz.ErrFailedToLoadConfig)
	}

	var versionCheck struct {
		Version string `toml:"version"`
	}
	if err := toml.Unmarshal(data, &versionCheck); err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrFailedToLoadConfig, err)
	}
	if versionCheck.Version != "" && versionCheck.Version != VersionLatest {
		return nil, fmt.Errorf("%w: %s", errz.ErrUnsupportedConfigVer, versionCheck.Version)
	}

	cfg := NewDefault()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", errz.ErrFailedToLoadConfig, strict.String())
		}
		return nil, fmt.Errorf("%w: %w", errz.ErrFailedToLoadConfig, err)
	}
	if cfg.Version == "" {
		cfg.Version = VersionLatest
	}
	return cfg, nil
}
