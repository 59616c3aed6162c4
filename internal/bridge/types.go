// internal/bridge/types.go
package bridge

import (
	"sort"
	"time"
)

// RegisterMap maps a logical sensor index to a holding register.
// Configuration-owned, read-only during operation.
type RegisterMap map[int]uint16

// Lookup returns the register for index i, if mapped.
func (m RegisterMap) Lookup(i int) (uint16, bool) {
	addr, ok := m[i]
	return addr, ok
}

// Indices returns the mapped indices in ascending order.
func (m RegisterMap) Indices() []int {
	out := make([]int, 0, len(m))
	for i := range m {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Config is the minimal runtime config the loop needs.
type Config struct {
	Interval  time.Duration
	Registers RegisterMap

	// Cycle health word (optional)
	StatusRegister *uint16
}

// registerWriter is the exact contract the loop uses.
type registerWriter interface {
	WriteRegister(addr uint16, celsius float64) error
	WriteRaw(addr, value uint16) error
}
