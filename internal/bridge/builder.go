// internal/bridge/builder.go
package bridge

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	cfg "github.com/tamzrod/modbus-tempbridge/internal/config"
	"github.com/tamzrod/modbus-tempbridge/internal/sensor"
	"github.com/tamzrod/modbus-tempbridge/internal/sensor/onewire"
	"github.com/tamzrod/modbus-tempbridge/internal/sensor/weather"
	"github.com/tamzrod/modbus-tempbridge/internal/status"
	"github.com/tamzrod/modbus-tempbridge/internal/writer"
)

// Build wires source, writer and sinks for the configured mode.
// Assumes config has already passed Validate.
// The serial port is not touched until the first write.
func Build(c cfg.Config, log logrus.FieldLogger, console io.Writer) (*Loop, func() error, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	src, err := BuildSource(c, log)
	if err != nil {
		return nil, nil, err
	}

	w, closeWriter, err := writer.Build(c, log)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", cfg.ErrInvalid, err)
	}

	sinks := status.Sinks{status.LogSink{Log: log}}
	if console != nil {
		sinks = append(sinks, status.ConsoleSink{W: console})
	}

	l, err := New(
		Config{
			Interval:       time.Duration(c.Bridge.IntervalMs) * time.Millisecond,
			Registers:      Registers(c),
			StatusRegister: c.Bridge.StatusRegister,
		},
		src,
		w,
		sinks,
		log,
	)
	if err != nil {
		_ = closeWriter()
		return nil, nil, fmt.Errorf("%w: %v", cfg.ErrInvalid, err)
	}

	return l, closeWriter, nil
}

// BuildSource constructs the temperature source for the configured mode.
func BuildSource(c cfg.Config, log logrus.FieldLogger) (sensor.Source, error) {
	switch c.Bridge.Mode {
	case cfg.ModeProbes:
		s, err := onewire.New(
			onewire.Config{
				FamilyPrefix: c.OneWire.FamilyPrefix,
				Backoff:      time.Duration(c.OneWire.RetryBackoffMs) * time.Millisecond,
				MaxAttempts:  c.OneWire.Attempts(),
			},
			onewire.SysfsBus{Root: c.OneWire.Root},
			log,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", cfg.ErrInvalid, err)
		}
		return s, nil

	case cfg.ModeWeather:
		s, err := weather.New(
			weather.Config{
				BaseURL:     c.Weather.BaseURL,
				Location:    c.Weather.Location,
				Timeout:     time.Duration(c.Weather.TimeoutMs) * time.Millisecond,
				MaxFailures: c.Weather.Breaker.MaxFailures,
				Cooldown:    time.Duration(c.Weather.Breaker.CooldownMs) * time.Millisecond,
			},
			nil,
			log,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", cfg.ErrInvalid, err)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("%w: unknown mode %q", cfg.ErrInvalid, c.Bridge.Mode)
	}
}

// Registers returns the register map for the configured mode.
// Weather mode maps its single slot (index 0) to weather.register.
func Registers(c cfg.Config) RegisterMap {
	if c.Bridge.Mode == cfg.ModeWeather {
		return RegisterMap{0: c.Weather.Address()}
	}
	m := make(RegisterMap, len(c.Bridge.Registers))
	for i, addr := range c.Bridge.Registers {
		m[i] = addr
	}
	return m
}
