//go:build !linux

package serial

import "context"

// Run is only implemented on Linux.
func (p *Poller) Run(ctx context.Context) error {
	return ErrUnsupported
}
