// internal/status/encode.go
package status

// Encode converts a Cycle into the status register word.
// Layout is protocol-locked:
//
//	high byte  health code
//	low byte   registers written this tick (saturates at 255)
//
// No IO. No side effects.
func Encode(c Cycle) uint16 {
	n := c.Count(OutcomeWritten)
	if n > MaxCount {
		n = MaxCount
	}
	return c.Health()<<8 | uint16(n)
}
