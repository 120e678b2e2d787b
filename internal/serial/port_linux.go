//go:build linux

package serial

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

var baudRates = map[int]uint32{
	50:     unix.B50,
	75:     unix.B75,
	110:    unix.B110,
	134:    unix.B134,
	150:    unix.B150,
	200:    unix.B200,
	300:    unix.B300,
	600:    unix.B600,
	1200:   unix.B1200,
	1800:   unix.B1800,
	2400:   unix.B2400,
	4800:   unix.B4800,
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
	230400: unix.B230400,
	460800: unix.B460800,
	500000: unix.B500000,
	576000: unix.B576000,
	921600: unix.B921600,
}

var dataBits = map[int]uint32{
	5: unix.CS5,
	6: unix.CS6,
	7: unix.CS7,
	8: unix.CS8,
}

// Open configures name as a raw, non-blocking line at speed and format,
// waits SettleDelay, then discards anything already queued in either direction.
func Open(name string, speed int, format string) (*Port, error) {
	frame, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	baud, ok := baudRates[speed]
	if !ok {
		return nil, CheckSpeed(speed)
	}

	fd, err := unix.Open(name, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", name, err)
	}
	if err := configure(fd, baud, frame); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("serial: configure %s: %w", name, err)
	}

	time.Sleep(SettleDelay)
	if err := unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIOFLUSH); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("serial: flush %s: %w", name, err)
	}
	return &Port{name: name, fd: fd}, nil
}

func configure(fd int, baud uint32, f Frame) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}

	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN

	t.Cflag &^= unix.CBAUD | unix.CSIZE | unix.PARENB | unix.PARODD | unix.CSTOPB | unix.CRTSCTS
	t.Cflag |= unix.CREAD | unix.CLOCAL | baud | dataBits[f.DataBits]
	switch f.Parity {
	case ParityEven:
		t.Cflag |= unix.PARENB
	case ParityOdd:
		t.Cflag |= unix.PARENB | unix.PARODD
	}
	if f.StopBits == 2 {
		t.Cflag |= unix.CSTOPB
	}

	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 0
	return unix.IoctlSetTermios(fd, unix.TCSETS, t)
}

// Available returns the number of bytes waiting to be read.
func (p *Port) Available() (int, error) {
	if p.closed.Load() {
		return 0, os.ErrClosed
	}
	return unix.IoctlGetInt(p.fd, unix.TIOCINQ)
}

// Read reads into buf. "Would block" is not an error: it reads zero bytes.
func (p *Port) Read(buf []byte) (int, error) {
	if p.closed.Load() {
		return 0, os.ErrClosed
	}
	n, err := unix.Read(p.fd, buf)
	if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("serial: read %s: %w", p.name, err)
	}
	return n, nil
}

// Close releases the port. Further reads return os.ErrClosed.
func (p *Port) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return unix.Close(p.fd)
}
