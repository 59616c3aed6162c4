// internal/status/report.go
package status

import "time"

// NoIndex marks an entry that got no logical index (absent reading).
const NoIndex = -1

// Entry is one sensor slot of a tick.
type Entry struct {
	Index    int // logical index, NoIndex when absent
	Key      string
	Celsius  float64 // valid unless Outcome == OutcomeAbsent
	Register uint16  // valid for OutcomeWritten / OutcomeWriteFailed
	Outcome  Outcome
	Err      error
}

// Cycle is the report of one tick.
// It contains no logic and no memory of previous ticks.
type Cycle struct {
	ID      string
	Source  string
	At      time.Time
	Entries []Entry
}

// Count returns how many entries ended with outcome o.
func (c Cycle) Count(o Outcome) int {
	n := 0
	for _, e := range c.Entries {
		if e.Outcome == o {
			n++
		}
	}
	return n
}

// Health classifies the tick. Unmapped readings are neither good nor bad.
func (c Cycle) Health() uint16 {
	written := c.Count(OutcomeWritten)
	failed := c.Count(OutcomeWriteFailed) + c.Count(OutcomeAbsent)

	switch {
	case written == 0 && failed == 0:
		return HealthUnknown
	case failed == 0:
		return HealthOK
	case written == 0:
		return HealthError
	default:
		return HealthDegraded
	}
}
