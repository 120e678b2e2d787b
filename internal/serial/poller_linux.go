//go:build linux

package serial

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

const hangup = unix.POLLHUP | unix.POLLERR | unix.POLLNVAL

// Run dispatches readiness until ctx is cancelled. A descriptor that hangs up
// gets one final handler call to drain what is left, then is unregistered.
func (p *Poller) Run(ctx context.Context) error {
	timeout := int(p.interval / time.Millisecond)
	for {
		if ctx.Err() != nil {
			return nil
		}

		handlers := p.snapshot()
		if len(handlers) == 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(p.interval):
			}
			continue
		}

		fds := make([]unix.PollFd, 0, len(handlers))
		for fd := range handlers {
			fds = append(fds, unix.PollFd{Fd: int32(fd), Events: unix.POLLIN})
		}

		n, err := unix.Poll(fds, timeout)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return fmt.Errorf("serial: poll: %w", err)
		}
		if n == 0 {
			continue
		}

		for _, pfd := range fds {
			if pfd.Revents == 0 {
				continue
			}
			fd := int(pfd.Fd)
			keep := true
			if pfd.Revents&unix.POLLNVAL == 0 {
				keep = handlers[fd](fd)
			}
			if !keep || pfd.Revents&hangup != 0 {
				p.Unregister(fd)
			}
		}
	}
}
