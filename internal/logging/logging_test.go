// internal/logging/logging_test.go
package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/modbus-tempbridge/internal/config"
)

func TestSetup_TextToStderr(t *testing.T) {
	var buf bytes.Buffer
	log, closeLog, err := setup(config.LogConfig{Level: "warn", Format: "text"}, &buf)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer closeLog()

	if log.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level = %v", log.GetLevel())
	}

	log.Info("hidden")
	log.WithField("register", 4096).Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "register=4096") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestSetup_JSONAlsoToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tempbridge.log")

	var buf bytes.Buffer
	log, closeLog, err := setup(config.LogConfig{Level: "info", Format: "json", File: path}, &buf)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	log.WithField("cycle", "abc").Info("cycle complete")
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(raw), &rec); err != nil {
		t.Fatalf("file record is not json: %v (%q)", err, raw)
	}
	if rec["msg"] != "cycle complete" || rec["cycle"] != "abc" {
		t.Fatalf("unexpected record: %v", rec)
	}
	if buf.Len() == 0 {
		t.Fatalf("stderr copy missing")
	}
}

func TestSetup_AppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tempbridge.log")
	if err := os.WriteFile(path, []byte("previous\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	log, closeLog, err := setup(config.LogConfig{Level: "info", File: path}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	log.Info("next")
	_ = closeLog()

	raw, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(raw), "previous\n") || !strings.Contains(string(raw), "next") {
		t.Fatalf("file not appended: %q", raw)
	}
}

func TestSetup_BadLevel(t *testing.T) {
	_, closeLog, err := setup(config.LogConfig{Level: "loud"}, &bytes.Buffer{})
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if closeLog == nil {
		t.Fatalf("closer must be non-nil")
	}
}
