// internal/bridge/loop.go
package bridge

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/modbus-tempbridge/internal/sensor"
	"github.com/tamzrod/modbus-tempbridge/internal/status"
)

// Loop binds one temperature source to holding registers.
// Clock-driven, sequential: one tick samples then writes, never overlapping.
type Loop struct {
	cfg    Config
	source sensor.Source
	writer registerWriter
	sink   status.Sink
	log    logrus.FieldLogger

	now   func() time.Time
	newID func() string
}

// New creates a loop with immutable config.
func New(cfg Config, source sensor.Source, w registerWriter, sink status.Sink, log logrus.FieldLogger) (*Loop, error) {
	if source == nil {
		return nil, errors.New("bridge: source required")
	}
	if w == nil {
		return nil, errors.New("bridge: writer required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("bridge: interval must be > 0")
	}
	if len(cfg.Registers) == 0 {
		return nil, errors.New("bridge: at least one register required")
	}
	if sink == nil {
		sink = status.Sinks{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Loop{
		cfg:    cfg,
		source: source,
		writer: w,
		sink:   sink,
		log:    log.WithField("source", source.Name()),
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}, nil
}

// Tick performs exactly one sample-and-write cycle and reports it.
// Present readings take logical indices 0..n-1 in sample order; absent
// slots consume none. Per-sensor failures are recorded, never returned.
func (l *Loop) Tick(ctx context.Context) status.Cycle {
	c := status.Cycle{
		ID:     l.newID(),
		Source: l.source.Name(),
		At:     l.now(),
	}

	next := 0
	for _, res := range l.source.Sample(ctx) {
		e := status.Entry{
			Index: status.NoIndex,
			Key:   res.Key,
		}

		if !res.Present() {
			e.Outcome = status.OutcomeAbsent
			e.Err = res.Err
			c.Entries = append(c.Entries, e)
			continue
		}

		e.Index = next
		next++
		e.Celsius = res.Reading.Celsius

		addr, ok := l.cfg.Registers.Lookup(e.Index)
		if !ok {
			e.Outcome = status.OutcomeNoRegister
			c.Entries = append(c.Entries, e)
			continue
		}

		e.Register = addr
		if err := l.writer.WriteRegister(addr, res.Reading.Celsius); err != nil {
			e.Outcome = status.OutcomeWriteFailed
			e.Err = err
		} else {
			e.Outcome = status.OutcomeWritten
		}
		c.Entries = append(c.Entries, e)
	}

	if l.cfg.StatusRegister != nil {
		if err := l.writer.WriteRaw(*l.cfg.StatusRegister, status.Encode(c)); err != nil {
			l.log.WithError(err).WithField("cycle", c.ID).Warn("status register write failed")
		}
	}

	l.sink.Report(c)
	return c
}
