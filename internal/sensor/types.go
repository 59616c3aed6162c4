// internal/sensor/types.go
package sensor

import (
	"context"
	"errors"
	"time"
)

// Reading is one successful temperature sample. Never mutated.
type Reading struct {
	Key     string // probe identifier or city name
	Celsius float64
	At      time.Time
}

// Result is the outcome for one logical slot of a Sample call.
// Index is the slot's discovery position; the bridge assigns register
// indices to present readings only.
type Result struct {
	Index   int
	Key     string
	Reading Reading
	Err     error // non-nil means the slot is absent this cycle
}

// Present reports whether the slot produced a Reading.
func (r Result) Present() bool { return r.Err == nil }

// Source is a temperature source the bridge loop can sample.
// Sample never fails as a whole: per-slot failures are carried in Result.Err.
type Source interface {
	Name() string
	Sample(ctx context.Context) []Result
}

var (
	// ErrTransientIO marks a raw file/HTTP read that failed.
	// Recoverable by sampling again next cycle.
	ErrTransientIO = errors.New("transient io failure")

	// ErrValidation marks a well-formed but unusable payload
	// (missing marker, missing field, non-numeric value).
	ErrValidation = errors.New("validation failure")
)
