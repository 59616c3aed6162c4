// internal/sensor/onewire/source.go
package onewire

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/modbus-tempbridge/internal/sensor"
)

// Config is the minimal runtime config the probe source needs.
type Config struct {
	FamilyPrefix string
	Backoff      time.Duration // wait between CRC re-reads
	MaxAttempts  int           // raw reads per sample; 0 => until the raw read fails
}

// MultiProbeSource samples every probe on the bus whose identifier
// starts with the family prefix.
type MultiProbeSource struct {
	cfg Config
	bus Bus
	log logrus.FieldLogger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a probe source with immutable config.
func New(cfg Config, bus Bus, log logrus.FieldLogger) (*MultiProbeSource, error) {
	if bus == nil {
		return nil, errors.New("onewire: bus required")
	}
	if cfg.FamilyPrefix == "" {
		return nil, errors.New("onewire: family prefix required")
	}
	if cfg.Backoff <= 0 {
		return nil, errors.New("onewire: backoff must be > 0")
	}
	if cfg.MaxAttempts < 0 {
		return nil, errors.New("onewire: max attempts must be >= 0")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &MultiProbeSource{
		cfg:   cfg,
		bus:   bus,
		log:   log.WithField("source", "onewire"),
		now:   time.Now,
		sleep: sleepCtx,
	}, nil
}

func (s *MultiProbeSource) Name() string { return "onewire" }

// Discover lists the probes currently wired, in stable (sorted) order.
func (s *MultiProbeSource) Discover() ([]string, error) {
	ids, err := s.bus.Devices(s.cfg.FamilyPrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: discover: %v", sensor.ErrTransientIO, err)
	}
	return ids, nil
}

// SampleOne reads one probe. A non-nil error means the probe is absent
// this cycle; it wraps sensor.ErrTransientIO or sensor.ErrValidation.
//
// A frame whose CRC line is not "YES" is re-read after the backoff until
// it validates, the raw read fails, or MaxAttempts reads were made.
func (s *MultiProbeSource) SampleOne(ctx context.Context, id string) (sensor.Reading, error) {
	raw, err := s.bus.ReadRaw(id)
	if err != nil {
		return sensor.Reading{}, fmt.Errorf("%w: probe %s: %v", sensor.ErrTransientIO, id, err)
	}

	attempt := 1
	for {
		status, data, err := splitFrame(raw)
		if err != nil {
			return sensor.Reading{}, fmt.Errorf("probe %s: %w", id, err)
		}

		if crcValid(status) {
			milli, err := parseMilli(data)
			if err != nil {
				return sensor.Reading{}, fmt.Errorf("probe %s: %w", id, err)
			}
			return sensor.Reading{
				Key:     id,
				Celsius: celsius(milli),
				At:      s.now(),
			}, nil
		}

		if s.cfg.MaxAttempts > 0 && attempt >= s.cfg.MaxAttempts {
			return sensor.Reading{}, fmt.Errorf(
				"%w: probe %s: crc not confirmed after %d reads",
				sensor.ErrValidation, id, attempt,
			)
		}

		s.log.WithFields(logrus.Fields{
			"probe":   id,
			"attempt": attempt,
		}).Debug("crc not confirmed, re-reading")

		if err := s.sleep(ctx, s.cfg.Backoff); err != nil {
			return sensor.Reading{}, fmt.Errorf("%w: probe %s: %v", sensor.ErrTransientIO, id, err)
		}

		attempt++
		raw, err = s.bus.ReadRaw(id)
		if err != nil {
			return sensor.Reading{}, fmt.Errorf("%w: probe %s: %v", sensor.ErrTransientIO, id, err)
		}
	}
}

// Sample performs one scan: every discovered probe yields one Result,
// Index = discovery position. Implements sensor.Source.
func (s *MultiProbeSource) Sample(ctx context.Context) []sensor.Result {
	ids, err := s.Discover()
	if err != nil {
		s.log.WithError(err).Warn("probe discovery failed")
		return nil
	}

	out := make([]sensor.Result, 0, len(ids))
	for i, id := range ids {
		r, err := s.SampleOne(ctx, id)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"probe": id,
				"index": i,
			}).WithError(err).Warn("sample absent")
		}
		out = append(out, sensor.Result{
			Index:   i,
			Key:     id,
			Reading: r,
			Err:     err,
		})
	}
	return out
}

// SampleAll returns the probes that produced a Reading, in discovery order.
// Failed probes are missing, never zero.
func (s *MultiProbeSource) SampleAll(ctx context.Context) []sensor.Reading {
	var out []sensor.Reading
	for _, r := range s.Sample(ctx) {
		if r.Present() {
			out = append(out, r.Reading)
		}
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
