// internal/logging/logging.go
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/modbus-tempbridge/internal/config"
)

// TimestampFormat matches the console cycle header.
const TimestampFormat = "2006-01-02 15:04:05"

// Setup builds the process logger from config.
// Records go to stderr, and also to cfg.File when set (append mode).
// The returned closer releases the file; it is always non-nil.
func Setup(cfg config.LogConfig) (*logrus.Logger, func() error, error) {
	return setup(cfg, os.Stderr)
}

func setup(cfg config.LogConfig, stderr io.Writer) (*logrus.Logger, func() error, error) {
	noop := func() error { return nil }

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, noop, fmt.Errorf("%w: log level: %v", config.ErrInvalid, err)
	}

	log := logrus.New()
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: TimestampFormat,
		})
	default:
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: TimestampFormat,
		})
	}

	if cfg.File == "" {
		log.SetOutput(stderr)
		return log, noop, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, noop, fmt.Errorf("%w: log file: %v", config.ErrInvalid, err)
	}
	log.SetOutput(io.MultiWriter(stderr, f))

	return log, f.Close, nil
}
