// internal/bridge/builder_test.go
package bridge

import (
	"testing"

	"gotest.tools/v3/assert"

	cfg "github.com/tamzrod/modbus-tempbridge/internal/config"
)

func TestRegisters_WeatherAddressZero(t *testing.T) {
	zero := uint16(0)
	c := cfg.Config{
		Bridge:  cfg.BridgeConfig{Mode: cfg.ModeWeather},
		Weather: cfg.WeatherConfig{Register: &zero},
	}
	cfg.ApplyDefaults(&c)
	assert.NilError(t, cfg.Validate(&c))

	assert.DeepEqual(t, Registers(c), RegisterMap{0: 0})
}

func TestRegisters_Probes(t *testing.T) {
	c := cfg.Config{
		Bridge: cfg.BridgeConfig{
			Mode:      cfg.ModeProbes,
			Registers: map[int]uint16{0: 0, 2: 4098},
		},
	}
	cfg.ApplyDefaults(&c)

	assert.DeepEqual(t, Registers(c), RegisterMap{0: 0, 2: 4098})
}
