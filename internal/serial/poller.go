package serial

import (
	"sync"
	"time"
)

// Handler is called when fd is readable. Returning false unregisters it.
type Handler func(fd int) bool

// Poller is the readiness dispatcher: it waits for registered descriptors to
// become readable and invokes their handlers synchronously, one at a time.
type Poller struct {
	mu       sync.Mutex
	handlers map[int]Handler
	interval time.Duration
}

// NewPoller creates a Poller that re-checks its registrations and
// cancellation every interval. A non-positive interval selects 100ms.
func NewPoller(interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Poller{handlers: make(map[int]Handler), interval: interval}
}

// Register installs h for fd, replacing any previous handler.
func (p *Poller) Register(fd int, h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[fd] = h
}

// Unregister removes fd.
func (p *Poller) Unregister(fd int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.handlers, fd)
}

// Len returns the number of registered descriptors.
func (p *Poller) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handlers)
}

func (p *Poller) snapshot() map[int]Handler {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[int]Handler, len(p.handlers))
	for fd, h := range p.handlers {
		out[fd] = h
	}
	return out
}
