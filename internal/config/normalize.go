// internal/config/normalize.go
package config

import "strings"

// Defaults mirror a DS18B20 bus on a Raspberry Pi wired to a single
// RS-485 slave at 9600 8E1.
const (
	DefaultProbeIntervalMs   = 5000
	DefaultWeatherIntervalMs = 5 * 60 * 1000

	DefaultSerialPort = "/dev/ttyUSB0"
	DefaultBaudRate   = 9600
	DefaultParity     = "E"
	DefaultStopBits   = 1
	DefaultDataBits   = 8
	DefaultTimeoutMs  = 2000
	DefaultUnitID     = 1

	DefaultOneWireRoot    = "/sys/bus/w1/devices"
	DefaultFamilyPrefix   = "28-"
	DefaultRetryBackoffMs = 200
	DefaultMaxAttempts    = 10

	DefaultWeatherURL       = "https://wttr.in"
	DefaultWeatherLocation  = "Kurgan"
	DefaultWeatherTimeoutMs = 10000
	DefaultWeatherRegister  = 4096
	DefaultBreakerFailures  = 5
	DefaultBreakerCooldown  = 15 * 60 * 1000

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// ApplyDefaults fills zero values.
// It is allowed to mutate configuration and runs before Validate().
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	b := &cfg.Bridge
	b.Mode = strings.ToLower(strings.TrimSpace(b.Mode))
	if b.Mode == "" {
		b.Mode = ModeProbes
	}
	if b.IntervalMs == 0 {
		if b.Mode == ModeWeather {
			b.IntervalMs = DefaultWeatherIntervalMs
		} else {
			b.IntervalMs = DefaultProbeIntervalMs
		}
	}
	b.Quantize = strings.ToLower(strings.TrimSpace(b.Quantize))
	if b.Quantize == "" {
		b.Quantize = QuantizeTruncate
	}
	if b.Mode == ModeProbes && len(b.Registers) == 0 {
		b.Registers = map[int]uint16{0: 4096, 1: 4097}
	}

	s := &cfg.Serial
	if s.Port == "" {
		s.Port = DefaultSerialPort
	}
	if s.BaudRate == 0 {
		s.BaudRate = DefaultBaudRate
	}
	s.Parity = strings.ToUpper(strings.TrimSpace(s.Parity))
	if s.Parity == "" {
		s.Parity = DefaultParity
	}
	if s.StopBits == 0 {
		s.StopBits = DefaultStopBits
	}
	if s.DataBits == 0 {
		s.DataBits = DefaultDataBits
	}
	if s.TimeoutMs == 0 {
		s.TimeoutMs = DefaultTimeoutMs
	}
	if s.UnitID == 0 {
		s.UnitID = DefaultUnitID
	}

	w := &cfg.OneWire
	if w.Root == "" {
		w.Root = DefaultOneWireRoot
	}
	if w.FamilyPrefix == "" {
		w.FamilyPrefix = DefaultFamilyPrefix
	}
	if w.RetryBackoffMs == 0 {
		w.RetryBackoffMs = DefaultRetryBackoffMs
	}
	if w.MaxAttempts == nil {
		n := DefaultMaxAttempts
		w.MaxAttempts = &n
	}

	wc := &cfg.Weather
	if wc.BaseURL == "" {
		wc.BaseURL = DefaultWeatherURL
	}
	wc.BaseURL = strings.TrimRight(wc.BaseURL, "/")
	if wc.Location == "" {
		wc.Location = DefaultWeatherLocation
	}
	if wc.TimeoutMs == 0 {
		wc.TimeoutMs = DefaultWeatherTimeoutMs
	}
	if wc.Register == nil {
		r := uint16(DefaultWeatherRegister)
		wc.Register = &r
	}
	if wc.Breaker.MaxFailures == 0 {
		wc.Breaker.MaxFailures = DefaultBreakerFailures
	}
	if wc.Breaker.CooldownMs == 0 {
		wc.Breaker.CooldownMs = DefaultBreakerCooldown
	}

	l := &cfg.Log
	if l.Level == "" {
		l.Level = DefaultLogLevel
	}
	if l.Format == "" {
		l.Format = DefaultLogFormat
	}
}
