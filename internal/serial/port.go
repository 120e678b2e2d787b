package serial

import "sync/atomic"

// Port is an open, non-blocking serial line.
type Port struct {
	name   string
	fd     int
	closed atomic.Bool
}

// Name returns the device path.
func (p *Port) Name() string { return p.name }

// Fd returns the file descriptor to register with a Poller.
func (p *Port) Fd() int { return p.fd }
