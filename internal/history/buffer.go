// Package history keeps the most recent lines read from the line source.
package history

import (
	"strings"
	"sync"
	"time"
)

// DefaultCapacity is the number of lines kept when no capacity is given.
const DefaultCapacity = 25

// Entry is one recorded line.
type Entry struct {
	Line       string    `json:"line"`
	ReceivedAt time.Time `json:"received_at"`
}

// Buffer is a bounded FIFO of lines, safe for one writer and many readers.
// When full, the oldest entry is evicted before a new one is appended.
type Buffer struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	now      func() time.Time
}

// New creates a Buffer holding at most capacity lines.
// A non-positive capacity selects DefaultCapacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
		now:      time.Now,
	}
}

// Push records line and returns the buffer size afterwards.
func (b *Buffer) Push(line string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) == b.capacity {
		copy(b.entries, b.entries[1:])
		b.entries = b.entries[:len(b.entries)-1]
	}
	b.entries = append(b.entries, Entry{Line: line, ReceivedAt: b.now()})
	return len(b.entries)
}

// Entries returns a copy of the recorded entries, oldest first.
func (b *Buffer) Entries() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Lines returns the recorded lines, oldest first.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Line
	}
	return out
}

// Render writes every line followed by a newline, oldest first.
func (b *Buffer) Render() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var sb strings.Builder
	for _, e := range b.entries {
		sb.WriteString(e.Line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Len returns the number of recorded lines.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Cap returns the maximum number of lines kept.
func (b *Buffer) Cap() int { return b.capacity }
