// Package serial opens raw, non-blocking serial ports and dispatches
// readiness callbacks for them.
package serial

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// SettleDelay is how long Open waits after configuring the line before it
// flushes whatever arrived while the port was being set up.
const SettleDelay = 10 * time.Millisecond

// ErrUnsupported is returned on platforms without termios support.
var ErrUnsupported = errors.New("serial: unsupported platform")

// Parity of a serial frame.
type Parity byte

const (
	ParityNone Parity = 'N'
	ParityEven Parity = 'E'
	ParityOdd  Parity = 'O'
)

// Frame describes the character format, e.g. 8N1.
type Frame struct {
	DataBits int
	Parity   Parity
	StopBits int
}

func (f Frame) String() string {
	return fmt.Sprintf("%d%c%d", f.DataBits, f.Parity, f.StopBits)
}

// ParseFormat parses strings such as "8N1" or "7e2".
func ParseFormat(s string) (Frame, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 3 {
		return Frame{}, fmt.Errorf("serial: bad frame format %q, want e.g. 8N1", s)
	}
	f := Frame{
		DataBits: int(s[0] - '0'),
		Parity:   Parity(s[1]),
		StopBits: int(s[2] - '0'),
	}
	if f.DataBits < 5 || f.DataBits > 8 {
		return Frame{}, fmt.Errorf("serial: bad data bits in %q", s)
	}
	switch f.Parity {
	case ParityNone, ParityEven, ParityOdd:
	default:
		return Frame{}, fmt.Errorf("serial: bad parity in %q", s)
	}
	if f.StopBits != 1 && f.StopBits != 2 {
		return Frame{}, fmt.Errorf("serial: bad stop bits in %q", s)
	}
	return f, nil
}

var speeds = []int{
	50, 75, 110, 134, 150, 200, 300, 600, 1200, 1800, 2400, 4800, 9600,
	19200, 38400, 57600, 115200, 230400, 460800, 500000, 576000, 921600,
}

// CheckSpeed reports whether speed is a standard baud rate.
func CheckSpeed(speed int) error {
	if !slices.Contains(speeds, speed) {
		return fmt.Errorf("serial: unsupported speed %d", speed)
	}
	return nil
}
