// internal/sensor/onewire/bus.go
package onewire

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Bus supplies raw 1-Wire device text keyed by probe identifier.
// The kernel driver behind it is opaque.
type Bus interface {
	// Devices lists identifiers starting with prefix. No devices is not an error.
	Devices(prefix string) ([]string, error)
	// ReadRaw returns the full status text of one device.
	ReadRaw(id string) ([]byte, error)
}

// SysfsBus reads the w1-therm sysfs tree (/sys/bus/w1/devices/<id>/w1_slave).
type SysfsBus struct {
	Root string
}

// DeviceFile is the per-probe status file exposed by w1-therm.
const DeviceFile = "w1_slave"

func (b SysfsBus) Devices(prefix string) ([]string, error) {
	entries, err := os.ReadDir(b.Root)
	if err != nil {
		if os.IsNotExist(err) {
			// bus master not loaded: nothing wired
			return nil, nil
		}
		return nil, err
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, prefix) {
			ids = append(ids, name)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (b SysfsBus) ReadRaw(id string) ([]byte, error) {
	return os.ReadFile(filepath.Join(b.Root, id, DeviceFile))
}
