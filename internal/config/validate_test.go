// internal/config/validate_test.go
package config

import (
	"errors"
	"testing"
)

// helper to build a defaulted probes config quickly
func probes(registers map[int]uint16) *Config {
	cfg := &Config{
		Bridge: BridgeConfig{
			Mode:      ModeProbes,
			Registers: registers,
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

func weather(intervalMs int) *Config {
	cfg := &Config{
		Bridge: BridgeConfig{
			Mode:       ModeWeather,
			IntervalMs: intervalMs,
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

func u16(v uint16) *uint16 { return &v }

// ---- tests ----

func TestValidate_DefaultsAreValid(t *testing.T) {
	if err := Validate(probes(nil)); err != nil {
		t.Fatalf("probes defaults: unexpected error: %v", err)
	}
	if err := Validate(weather(0)); err != nil {
		t.Fatalf("weather defaults: unexpected error: %v", err)
	}
}

func TestValidate_RegisterCollisionDetected(t *testing.T) {
	cfg := probes(map[int]uint16{0: 4096, 1: 4096})

	err := Validate(cfg)
	if err == nil {
		t.Fatalf("expected collision error, got nil")
	}
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestValidate_StatusRegisterCollisionDetected(t *testing.T) {
	cfg := probes(map[int]uint16{0: 4096, 1: 4097})
	cfg.Bridge.StatusRegister = u16(4097)

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected status register collision, got nil")
	}
}

func TestValidate_StatusRegisterCollidesWithWeather(t *testing.T) {
	cfg := weather(0)
	cfg.Bridge.StatusRegister = u16(cfg.Weather.Address())

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected status register collision, got nil")
	}
}

func TestValidate_GapsInIndexAllowed(t *testing.T) {
	cfg := probes(map[int]uint16{0: 4096, 3: 4099})

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_NegativeIndexRejected(t *testing.T) {
	cfg := probes(map[int]uint16{-1: 4096})

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected negative index error, got nil")
	}
}

func TestValidate_WeatherIntervalTooShort(t *testing.T) {
	cfg := weather(5000)

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected interval error, got nil")
	}
}

func TestValidate_UnknownModeRejected(t *testing.T) {
	cfg := probes(nil)
	cfg.Bridge.Mode = "modbus"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected mode error, got nil")
	}
}

func TestValidate_SerialParameters(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SerialConfig)
	}{
		{"parity", func(s *SerialConfig) { s.Parity = "X" }},
		{"stop bits", func(s *SerialConfig) { s.StopBits = 3 }},
		{"data bits", func(s *SerialConfig) { s.DataBits = 9 }},
		{"broadcast unit", func(s *SerialConfig) { s.UnitID = 0 }},
		{"reserved unit", func(s *SerialConfig) { s.UnitID = 250 }},
		{"empty port", func(s *SerialConfig) { s.Port = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := probes(nil)
			tc.mutate(&cfg.Serial)
			if err := Validate(cfg); err == nil {
				t.Fatalf("expected serial error, got nil")
			}
		})
	}
}

func TestValidate_WeatherURL(t *testing.T) {
	cfg := weather(0)
	cfg.Weather.BaseURL = "ftp://wttr.in"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected scheme error, got nil")
	}
}

func TestValidate_UnboundedRetryAllowed(t *testing.T) {
	cfg := probes(nil)
	zero := 0
	cfg.OneWire.MaxAttempts = &zero

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OneWire.Attempts() != 0 {
		t.Fatalf("expected unbounded attempts, got %d", cfg.OneWire.Attempts())
	}
}

func TestValidate_InactiveSourceIgnored(t *testing.T) {
	// weather settings are irrelevant in probes mode
	cfg := probes(nil)
	cfg.Weather.BaseURL = "not a url"

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
