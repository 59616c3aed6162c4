// internal/status/sink.go
package status

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Sink receives every tick report. Delivery only: no state, no interpretation.
type Sink interface {
	Report(c Cycle)
}

// Sinks fans one report out to several sinks in order.
type Sinks []Sink

func (s Sinks) Report(c Cycle) {
	for _, sink := range s {
		sink.Report(c)
	}
}

// ConsoleSink prints human-readable per-cycle lines.
type ConsoleSink struct {
	W io.Writer
}

const timeLayout = "2006-01-02 15:04:05"

func (s ConsoleSink) Report(c Cycle) {
	fmt.Fprintf(s.W, "\nTime: %s\n", c.At.Format(timeLayout))

	if len(c.Entries) == 0 {
		fmt.Fprintln(s.W, "no sensors found")
		return
	}

	for _, e := range c.Entries {
		fmt.Fprintln(s.W, Line(e))
	}
}

// Line renders one entry, e.g. "sensor 0 (28-0316a2794a1f): 21.56°C -> register 4096 ✓".
func Line(e Entry) string {
	head := fmt.Sprintf("sensor %d (%s)", e.Index, e.Key)
	if e.Index == NoIndex {
		head = fmt.Sprintf("sensor (%s)", e.Key)
	}

	switch e.Outcome {
	case OutcomeWritten:
		return fmt.Sprintf("%s: %.2f°C -> register %d ✓", head, e.Celsius, e.Register)
	case OutcomeWriteFailed:
		return fmt.Sprintf("%s: %.2f°C -> register %d ✗", head, e.Celsius, e.Register)
	case OutcomeNoRegister:
		return fmt.Sprintf("%s: %.2f°C (no register)", head, e.Celsius)
	case OutcomeAbsent:
		return fmt.Sprintf("%s: failed to get temperature", head)
	default:
		return head
	}
}

// LogSink writes one structured record per tick.
type LogSink struct {
	Log logrus.FieldLogger
}

func (s LogSink) Report(c Cycle) {
	entry := s.Log.WithFields(logrus.Fields{
		"cycle":       c.ID,
		"source":      c.Source,
		"sensors":     len(c.Entries),
		"written":     c.Count(OutcomeWritten),
		"failed":      c.Count(OutcomeWriteFailed),
		"absent":      c.Count(OutcomeAbsent),
		"no_register": c.Count(OutcomeNoRegister),
	})

	switch c.Health() {
	case HealthOK:
		entry.Info("cycle complete")
	case HealthUnknown:
		entry.Warn("cycle sampled nothing")
	default:
		entry.Warn("cycle incomplete")
	}
}
