// internal/writer/modbus/client.go
package modbus

import (
	"errors"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Session is one Modbus RTU master session on a serial port.
// It serializes requests; only the bridge writer may hold one.
type Session struct {
	mu      sync.Mutex
	handler *modbus.RTUClientHandler
	client  modbus.Client
	release bool
}

type Config struct {
	Port     string
	BaudRate int
	DataBits int
	Parity   string // N, E, O
	StopBits int
	Timeout  time.Duration
	UnitID   uint8

	// Open and close the port around every frame.
	ReleasePort bool
}

// Open configures the RTU handler and proves the port can be opened.
// With ReleasePort the port is closed again right away.
func Open(cfg Config) (*Session, error) {
	if cfg.Port == "" {
		return nil, errors.New("writer modbus: port required")
	}

	h := modbus.NewRTUClientHandler(cfg.Port)
	h.BaudRate = cfg.BaudRate
	h.DataBits = cfg.DataBits
	h.Parity = cfg.Parity
	h.StopBits = cfg.StopBits
	h.SlaveId = cfg.UnitID
	h.Timeout = cfg.Timeout

	if err := h.Connect(); err != nil {
		return nil, err
	}
	if cfg.ReleasePort {
		if err := h.Close(); err != nil {
			return nil, err
		}
	}

	return &Session{
		handler: h,
		client:  modbus.NewClient(h),
		release: cfg.ReleasePort,
	}, nil
}

// WriteSingleRegister issues function code 6 to the configured unit.
func (s *Session) WriteSingleRegister(addr, value uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.release {
		if err := s.handler.Connect(); err != nil {
			return err
		}
		defer s.handler.Close()
	}

	_, err := s.client.WriteSingleRegister(addr, value)
	return err
}

// Close releases the serial port. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handler.Close()
}
