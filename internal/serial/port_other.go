//go:build !linux

package serial

import "os"

// Open is only implemented on Linux.
func Open(name string, speed int, format string) (*Port, error) {
	return nil, ErrUnsupported
}

func (p *Port) Available() (int, error) { return 0, ErrUnsupported }

func (p *Port) Read(buf []byte) (int, error) { return 0, os.ErrClosed }

func (p *Port) Close() error { return nil }
