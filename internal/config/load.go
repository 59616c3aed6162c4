// internal/config/load.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TEMPBRIDGE_"

// Load reads the YAML file at path (optional), applies .env and TEMPBRIDGE_*
// overrides, fills defaults and validates.
// An empty path yields defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrInvalid, path, err)
		}
		if err := Decode(raw, cfg); err != nil {
			return nil, err
		}
	}

	// .env is optional; a missing file is not an error.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: .env: %v", ErrInvalid, err)
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses YAML strictly: unknown keys are rejected.
func Decode(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// empty document
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: yaml: %v", ErrInvalid, err)
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

// applyEnv overrides the handful of fields operators change per host.
func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q: %v", ErrInvalid, EnvPrefix, key, v, err)
		}
		*dst = n
		return nil
	}

	str("MODE", &cfg.Bridge.Mode)
	str("SERIAL_PORT", &cfg.Serial.Port)
	str("WEATHER_URL", &cfg.Weather.BaseURL)
	str("WEATHER_LOCATION", &cfg.Weather.Location)
	str("ONEWIRE_ROOT", &cfg.OneWire.Root)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FILE", &cfg.Log.File)

	if err := num("INTERVAL_MS", &cfg.Bridge.IntervalMs); err != nil {
		return err
	}
	if err := num("BAUD_RATE", &cfg.Serial.BaudRate); err != nil {
		return err
	}

	if v, ok := lookup(EnvPrefix + "UNIT_ID"); ok && v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return fmt.Errorf("%w: %sUNIT_ID=%q: %v", ErrInvalid, EnvPrefix, v, err)
		}
		cfg.Serial.UnitID = uint8(n)
	}

	return nil
}
