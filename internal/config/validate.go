// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrInvalid marks a configuration failure: the bridge cannot even attempt
// a connection and must not start.
var ErrInvalid = errors.New("invalid configuration")

// MinWeatherIntervalMs keeps the remote provider within its acceptable call rate.
const MinWeatherIntervalMs = 60 * 1000

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return invalid("config is nil")
	}

	// ------------------------------------------------------------
	// BRIDGE
	// ------------------------------------------------------------

	b := cfg.Bridge
	switch b.Mode {
	case ModeProbes, ModeWeather:
	default:
		return invalid("bridge.mode %q: want %q or %q", b.Mode, ModeProbes, ModeWeather)
	}

	if b.IntervalMs <= 0 {
		return invalid("bridge.interval_ms must be > 0")
	}
	if b.Mode == ModeWeather && b.IntervalMs < MinWeatherIntervalMs {
		return invalid(
			"bridge.interval_ms %d is below the weather minimum of %d",
			b.IntervalMs,
			MinWeatherIntervalMs,
		)
	}

	switch b.Quantize {
	case QuantizeTruncate, QuantizeNearest:
	default:
		return invalid("bridge.quantize %q: want %q or %q", b.Quantize, QuantizeTruncate, QuantizeNearest)
	}

	// ------------------------------------------------------------
	// REGISTER MAP (addresses must not collide)
	// ------------------------------------------------------------

	// key = register address, value = owner description
	owner := make(map[uint16]string)

	claim := func(addr uint16, who string) error {
		if prev, exists := owner[addr]; exists {
			return invalid("register collision: address=%d used by %s and %s", addr, prev, who)
		}
		owner[addr] = who
		return nil
	}

	if b.Mode == ModeProbes {
		if len(b.Registers) == 0 {
			return invalid("bridge.registers: at least one register required in probes mode")
		}
		for _, idx := range sortedIndices(b.Registers) {
			if idx < 0 {
				return invalid("bridge.registers: negative sensor index %d", idx)
			}
			if err := claim(b.Registers[idx], fmt.Sprintf("sensor %d", idx)); err != nil {
				return err
			}
		}
	} else {
		if err := claim(cfg.Weather.Address(), "weather"); err != nil {
			return err
		}
	}

	if b.StatusRegister != nil {
		if err := claim(*b.StatusRegister, "status_register"); err != nil {
			return err
		}
	}

	// ------------------------------------------------------------
	// SERIAL
	// ------------------------------------------------------------

	s := cfg.Serial
	if s.Port == "" {
		return invalid("serial.port required")
	}
	if s.BaudRate <= 0 {
		return invalid("serial.baud_rate must be > 0")
	}
	switch s.Parity {
	case "N", "E", "O":
	default:
		return invalid("serial.parity %q: want N, E or O", s.Parity)
	}
	if s.StopBits != 1 && s.StopBits != 2 {
		return invalid("serial.stop_bits %d: want 1 or 2", s.StopBits)
	}
	if s.DataBits < 5 || s.DataBits > 8 {
		return invalid("serial.data_bits %d: want 5..8", s.DataBits)
	}
	if s.TimeoutMs <= 0 {
		return invalid("serial.timeout_ms must be > 0")
	}
	// 0 is broadcast (no response), 248+ reserved.
	if s.UnitID < 1 || s.UnitID > 247 {
		return invalid("serial.unit_id %d: want 1..247", s.UnitID)
	}

	// ------------------------------------------------------------
	// SOURCES (only the active one is checked)
	// ------------------------------------------------------------

	switch b.Mode {
	case ModeProbes:
		w := cfg.OneWire
		if w.Root == "" {
			return invalid("onewire.root required")
		}
		if w.FamilyPrefix == "" || strings.ContainsAny(w.FamilyPrefix, `*?[]/\`) {
			return invalid("onewire.family_prefix %q must be a plain prefix", w.FamilyPrefix)
		}
		if w.RetryBackoffMs <= 0 {
			return invalid("onewire.retry_backoff_ms must be > 0")
		}
		if w.Attempts() < 0 {
			return invalid("onewire.max_attempts must be >= 0")
		}

	case ModeWeather:
		wc := cfg.Weather
		u, err := url.Parse(wc.BaseURL)
		if err != nil {
			return invalid("weather.base_url: %v", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return invalid("weather.base_url %q: scheme must be http or https", wc.BaseURL)
		}
		if u.Host == "" {
			return invalid("weather.base_url %q: host required", wc.BaseURL)
		}
		if strings.TrimSpace(wc.Location) == "" {
			return invalid("weather.location required")
		}
		if wc.TimeoutMs <= 0 {
			return invalid("weather.timeout_ms must be > 0")
		}
		if wc.TimeoutMs >= b.IntervalMs {
			return invalid("weather.timeout_ms must be shorter than bridge.interval_ms")
		}
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return invalid("log.level: %v", err)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format %q: want text or json", cfg.Log.Format)
	}

	return nil
}

func sortedIndices(m map[int]uint16) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
