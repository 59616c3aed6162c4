// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var (
	// ErrConnect: the session could not be established.
	ErrConnect = errors.New("writer: connect failed")
	// ErrTransport: the frame was not accepted (timeout, exception, I/O).
	ErrTransport = errors.New("writer: transport failed")
	// ErrOutOfRange: the value does not fit the register encoding.
	ErrOutOfRange = errors.New("writer: value out of range")
)

// Session is the exact contract the writer needs from a Modbus master.
type Session interface {
	WriteSingleRegister(addr, value uint16) error // FC 6
	Close() error
}

// Dialer establishes a session. ONE attempt per call.
type Dialer func() (Session, error)

// ConnState is owned exclusively by RegisterWriter.
type ConnState int

const (
	Disconnected ConnState = iota
	Connected
)

func (s ConnState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("ConnState(%d)", int(s))
	}
}

// RegisterWriter writes quantized temperatures to holding registers.
// The session is dialed lazily and dropped on any transport failure;
// the next write dials a fresh one. No retries inside a call.
type RegisterWriter struct {
	dial Dialer
	mode QuantizeMode
	log  logrus.FieldLogger

	state ConnState
	sess  Session
}

func New(dial Dialer, mode QuantizeMode, log logrus.FieldLogger) *RegisterWriter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RegisterWriter{
		dial:  dial,
		mode:  mode,
		log:   log.WithField("component", "writer"),
		state: Disconnected,
	}
}

// State reports the current connection state.
func (w *RegisterWriter) State() ConnState { return w.state }

// WriteRegister quantizes celsius and writes it to addr.
// nil means the transport accepted the frame; the slave is not read back.
func (w *RegisterWriter) WriteRegister(addr uint16, celsius float64) error {
	v, err := Quantize(celsius, w.mode)
	if err != nil {
		w.log.WithFields(logrus.Fields{
			"register": addr,
			"celsius":  celsius,
		}).WithError(err).Error("write rejected")
		return err
	}

	if err := w.WriteRaw(addr, Encode(v)); err != nil {
		return err
	}

	w.log.WithFields(logrus.Fields{
		"register": addr,
		"celsius":  fmt.Sprintf("%.1f", celsius),
		"value":    v,
	}).Info("register written")
	return nil
}

// WriteRaw writes one register word as-is.
func (w *RegisterWriter) WriteRaw(addr, value uint16) error {
	if w.state == Disconnected {
		if err := w.connect(); err != nil {
			return err
		}
	}

	if err := w.sess.WriteSingleRegister(addr, value); err != nil {
		w.disconnect()
		w.log.WithFields(logrus.Fields{
			"register": addr,
			"value":    value,
		}).WithError(err).Error("register write failed")
		return fmt.Errorf("%w: register %d: %v", ErrTransport, addr, err)
	}
	return nil
}

// Close tears down the session, if any.
func (w *RegisterWriter) Close() error {
	if w.state == Disconnected {
		return nil
	}
	err := w.sess.Close()
	w.sess = nil
	w.state = Disconnected
	return err
}

func (w *RegisterWriter) connect() error {
	if w.dial == nil {
		return fmt.Errorf("%w: no dialer", ErrConnect)
	}

	sess, err := w.dial()
	if err != nil {
		w.log.WithError(err).Error("modbus connect failed")
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}

	w.sess = sess
	w.state = Connected
	w.log.Info("modbus connected")
	return nil
}

func (w *RegisterWriter) disconnect() {
	if w.sess != nil {
		if err := w.sess.Close(); err != nil {
			w.log.WithError(err).Debug("session close failed")
		}
	}
	w.sess = nil
	w.state = Disconnected
	w.log.Warn("modbus disconnected")
}
