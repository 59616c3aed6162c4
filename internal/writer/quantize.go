// internal/writer/quantize.go
package writer

import (
	"fmt"
	"math"
)

// Scale is the wire contract: one implied decimal digit.
// Consumers divide the register value by Scale to recover Celsius.
const Scale = 10

// snap absorbs float noise such as 8.2*10 = 81.99999999999999.
const snap = 1e-9

// QuantizeMode selects how the scaled value is brought to an integer.
type QuantizeMode int

const (
	// Truncate rounds toward zero (the default wire contract).
	Truncate QuantizeMode = iota
	// Nearest rounds half away from zero.
	Nearest
)

func (m QuantizeMode) String() string {
	switch m {
	case Truncate:
		return "truncate"
	case Nearest:
		return "nearest"
	default:
		return fmt.Sprintf("QuantizeMode(%d)", int(m))
	}
}

// ParseQuantizeMode maps the config spelling to a mode.
func ParseQuantizeMode(s string) (QuantizeMode, error) {
	switch s {
	case "", "truncate":
		return Truncate, nil
	case "nearest":
		return Nearest, nil
	default:
		return Truncate, fmt.Errorf("writer: unknown quantize mode %q", s)
	}
}

// Quantize encodes celsius as a signed fixed-point register value.
// Values outside the int16 range are rejected, never wrapped.
func Quantize(celsius float64, mode QuantizeMode) (int16, error) {
	if math.IsNaN(celsius) || math.IsInf(celsius, 0) {
		return 0, fmt.Errorf("%w: %v", ErrOutOfRange, celsius)
	}

	scaled := celsius * Scale
	if r := math.Round(scaled); math.Abs(scaled-r) < snap {
		scaled = r
	}

	var v float64
	switch mode {
	case Nearest:
		v = math.Round(scaled)
	default:
		v = math.Trunc(scaled)
	}

	if v < math.MinInt16 || v > math.MaxInt16 {
		return 0, fmt.Errorf("%w: %.3f°C", ErrOutOfRange, celsius)
	}
	return int16(v), nil
}

// Encode returns the two's-complement register word for a quantized value.
func Encode(v int16) uint16 { return uint16(v) }

// Decode recovers Celsius from a register word, as the PLC reads it.
func Decode(reg uint16) float64 { return float64(int16(reg)) / Scale }
