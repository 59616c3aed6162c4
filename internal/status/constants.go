// internal/status/constants.go
package status

// Per-sensor outcome of one tick.
type Outcome int

const (
	// OutcomeWritten: sampled and the frame was accepted.
	OutcomeWritten Outcome = iota
	// OutcomeWriteFailed: sampled, but the register write failed.
	OutcomeWriteFailed
	// OutcomeAbsent: the source produced no reading this tick.
	OutcomeAbsent
	// OutcomeNoRegister: sampled, but no register is mapped to the index.
	OutcomeNoRegister
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomeWriteFailed:
		return "write_failed"
	case OutcomeAbsent:
		return "absent"
	case OutcomeNoRegister:
		return "no_register"
	default:
		return "unknown"
	}
}

// ---- HEALTH CODES (status register, high byte) ----
// These values are read by the PLC and MUST NOT change.

// HealthUnknown: nothing was sampled (no probes wired).
const HealthUnknown uint16 = 0

// HealthOK: every mapped reading was written.
const HealthOK uint16 = 1

// HealthError: nothing mapped was written.
const HealthError uint16 = 2

// HealthDegraded: some mapped readings were written, some were not.
const HealthDegraded uint16 = 3

// MaxCount saturates the per-cycle counter in the low byte.
const MaxCount = 0xFF
