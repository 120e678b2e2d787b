package command

import "context"

// Executor performs a materialized command out of band.
type Executor interface {
	// Name returns the backend name executors are registered and routed under.
	Name() string
	// Execute runs the command. Callers on the intake path never wait on it.
	Execute(ctx context.Context, cmd Command) error
}

// Dispatcher accepts commands for asynchronous execution.
// Dispatch must not block and reports nothing back to the caller.
type Dispatcher interface {
	Dispatch(cmd Command)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(cmd Command)

func (f DispatcherFunc) Dispatch(cmd Command) { f(cmd) }
