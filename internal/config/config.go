// internal/config/config.go
package config

type Config struct {
	Bridge  BridgeConfig  `yaml:"bridge"`
	Serial  SerialConfig  `yaml:"serial"`
	OneWire OneWireConfig `yaml:"onewire"`
	Weather WeatherConfig `yaml:"weather"`
	Log     LogConfig     `yaml:"log"`
}

// Bridge modes.
const (
	ModeProbes  = "probes"
	ModeWeather = "weather"
)

// Quantization modes.
const (
	QuantizeTruncate = "truncate"
	QuantizeNearest  = "nearest"
)

// ---- BRIDGE ----

type BridgeConfig struct {
	Mode       string `yaml:"mode"`
	IntervalMs int    `yaml:"interval_ms"`
	Quantize   string `yaml:"quantize"`

	// logical sensor index -> holding register (probes mode)
	Registers map[int]uint16 `yaml:"registers"`

	// Cycle health word (optional, opt-in)
	StatusRegister *uint16 `yaml:"status_register"`
}

// ---- SERIAL (Modbus RTU) ----

type SerialConfig struct {
	Port      string `yaml:"port"`
	BaudRate  int    `yaml:"baud_rate"`
	Parity    string `yaml:"parity"`
	StopBits  int    `yaml:"stop_bits"`
	DataBits  int    `yaml:"data_bits"`
	TimeoutMs int    `yaml:"timeout_ms"`
	UnitID    uint8  `yaml:"unit_id"`

	// Release the port between frames so other processes can share it.
	ReleasePort *bool `yaml:"release_port"`
}

// ---- 1-WIRE ----

type OneWireConfig struct {
	Root           string `yaml:"root"`
	FamilyPrefix   string `yaml:"family_prefix"`
	RetryBackoffMs int    `yaml:"retry_backoff_ms"`
	MaxAttempts    *int   `yaml:"max_attempts"` // 0 => retry until the raw read fails
}

// ---- WEATHER ----

type WeatherConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Location  string        `yaml:"location"`
	TimeoutMs int           `yaml:"timeout_ms"`
	Register  *uint16       `yaml:"register"` // nil => DefaultWeatherRegister; 0 is a valid address
	Breaker   BreakerConfig `yaml:"breaker"`
}

type BreakerConfig struct {
	MaxFailures uint32 `yaml:"max_failures"`
	CooldownMs  int    `yaml:"cooldown_ms"`
}

// ---- LOG ----

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Released reports whether the serial port is released between frames.
func (s SerialConfig) Released() bool {
	return s.ReleasePort == nil || *s.ReleasePort
}

// Address returns the weather register address.
func (w WeatherConfig) Address() uint16 {
	if w.Register == nil {
		return DefaultWeatherRegister
	}
	return *w.Register
}

// Attempts returns the CRC retry cap; 0 means unbounded.
func (w OneWireConfig) Attempts() int {
	if w.MaxAttempts == nil {
		return DefaultMaxAttempts
	}
	return *w.MaxAttempts
}
