// internal/sensor/onewire/parse.go
package onewire

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tamzrod/modbus-tempbridge/internal/sensor"
)

// w1_slave layout (two lines):
//
//	72 01 4b 46 7f ff 0e 10 57 : crc=57 YES
//	72 01 4b 46 7f ff 0e 10 57 t=23125
const (
	crcOK       = "YES"
	tempMarker  = "t="
	milliPerDeg = 1000.0
)

// splitFrame returns the status and data lines of a raw frame.
func splitFrame(raw []byte) (status, data string, err error) {
	lines := strings.Split(strings.TrimRight(string(raw), "\r\n"), "\n")
	if len(lines) < 2 {
		return "", "", fmt.Errorf("%w: short frame (%d lines)", sensor.ErrTransientIO, len(lines))
	}
	return lines[0], lines[1], nil
}

// crcValid reports whether the status line ends with the success marker.
func crcValid(status string) bool {
	return strings.HasSuffix(strings.TrimSpace(status), crcOK)
}

// parseMilli extracts the millidegree integer following "t=".
func parseMilli(data string) (int64, error) {
	pos := strings.Index(data, tempMarker)
	if pos == -1 {
		return 0, fmt.Errorf("%w: no %q marker", sensor.ErrValidation, tempMarker)
	}

	v, err := strconv.ParseInt(strings.TrimSpace(data[pos+len(tempMarker):]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad millidegrees: %v", sensor.ErrValidation, err)
	}
	return v, nil
}

// celsius converts millidegrees without rounding beyond float precision.
func celsius(milli int64) float64 {
	return float64(milli) / milliPerDeg
}
