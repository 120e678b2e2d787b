package command

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps backend names to executors and command names to backends.
// It is safe for concurrent reads; Register and Route should only be called at startup.
type Registry struct {
	mu        sync.RWMutex
	executors map[string]Executor
	routes    map[string]string
	fallback  string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		executors: make(map[string]Executor),
		routes:    make(map[string]string),
	}
}

// Register adds an executor. Panics on duplicate name to surface misconfiguration early.
// The first executor registered becomes the default until SetDefault is called.
func (r *Registry) Register(e Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.executors[e.Name()]; exists {
		panic(fmt.Sprintf("command registry: duplicate backend %q", e.Name()))
	}
	r.executors[e.Name()] = e
	if r.fallback == "" {
		r.fallback = e.Name()
	}
}

// SetDefault selects the backend used for commands without a route.
func (r *Registry) SetDefault(backend string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.executors[backend]; !ok {
		return fmt.Errorf("no executor registered for backend %q", backend)
	}
	r.fallback = backend
	return nil
}

// Route sends every command named commandName to backend.
func (r *Registry) Route(commandName, backend string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.executors[backend]; !ok {
		return fmt.Errorf("route %q: no executor registered for backend %q", commandName, backend)
	}
	r.routes[commandName] = backend
	return nil
}

// Resolve returns the executor responsible for cmd.
func (r *Registry) Resolve(cmd Command) (Executor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name := r.fallback
	if b, ok := r.routes[cmd.Name]; ok {
		name = b
	}
	e, ok := r.executors[name]
	if !ok {
		return nil, fmt.Errorf("no executor for command %q", cmd.Name)
	}
	return e, nil
}

// Backends returns all registered backend names, sorted.
func (r *Registry) Backends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.executors))
	for k := range r.executors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
