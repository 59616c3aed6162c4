// internal/writer/builder.go
package writer

import (
	"time"

	"github.com/sirupsen/logrus"

	cfg "github.com/tamzrod/modbus-tempbridge/internal/config"
	wmodbus "github.com/tamzrod/modbus-tempbridge/internal/writer/modbus"
)

// Build constructs the RegisterWriter for the configured serial slave.
// Nothing is opened here: the first write dials.
// The returned closer releases the port if a session is held.
func Build(c cfg.Config, log logrus.FieldLogger) (*RegisterWriter, func() error, error) {
	mode, err := ParseQuantizeMode(c.Bridge.Quantize)
	if err != nil {
		return nil, nil, err
	}

	s := c.Serial

	// session factory: ONE attempt per call
	dial := func() (Session, error) {
		sess, err := wmodbus.Open(wmodbus.Config{
			Port:        s.Port,
			BaudRate:    s.BaudRate,
			DataBits:    s.DataBits,
			Parity:      s.Parity,
			StopBits:    s.StopBits,
			Timeout:     time.Duration(s.TimeoutMs) * time.Millisecond,
			UnitID:      s.UnitID,
			ReleasePort: s.Released(),
		})
		if err != nil {
			return nil, err
		}
		return sess, nil
	}

	if log == nil {
		log = logrus.StandardLogger()
	}
	w := New(dial, mode, log.WithFields(logrus.Fields{
		"port":    s.Port,
		"unit_id": s.UnitID,
	}))

	return w, w.Close, nil
}
