// internal/bridge/banner.go
package bridge

import (
	"fmt"
	"io"

	"github.com/tamzrod/modbus-tempbridge/internal/sensor"
)

// discoverer is implemented by sources with an enumerable bus.
type discoverer interface {
	Discover() ([]string, error)
}

// Banner prints the startup mapping: every discovered probe and its
// register, then registers with no probe behind them. The table holds
// while every probe reads; an absent probe shifts later probes down.
// Sources without discovery print their single slot.
func (l *Loop) Banner(w io.Writer) error {
	return PrintMapping(w, l.source, l.cfg.Registers)
}

// PrintMapping writes the probe-to-register table for src.
func PrintMapping(w io.Writer, src sensor.Source, regs RegisterMap) error {
	d, ok := src.(discoverer)
	if !ok {
		if addr, mapped := regs.Lookup(0); mapped {
			fmt.Fprintf(w, "source %s -> register %d\n", src.Name(), addr)
		} else {
			fmt.Fprintf(w, "source %s (no register)\n", src.Name())
		}
		return nil
	}

	ids, err := d.Discover()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "found %d sensor(s)\n", len(ids))
	for i, id := range ids {
		if addr, mapped := regs.Lookup(i); mapped {
			fmt.Fprintf(w, "sensor %d (%s) -> register %d\n", i, id, addr)
		} else {
			fmt.Fprintf(w, "sensor %d (%s) (no register)\n", i, id)
		}
	}

	for _, i := range regs.Indices() {
		if i >= len(ids) {
			addr, _ := regs.Lookup(i)
			fmt.Fprintf(w, "register %d: no sensor at index %d\n", addr, i)
		}
	}
	return nil
}
