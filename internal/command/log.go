package command

import (
	"context"
	"log/slog"
)

// LogExecutor only records commands. It backs dry runs and deployments
// without a command backend.
type LogExecutor struct {
	logger *slog.Logger
}

// NewLogExecutor logs through l, or the default logger when l is nil.
func NewLogExecutor(l *slog.Logger) *LogExecutor {
	if l == nil {
		l = slog.Default()
	}
	return &LogExecutor{logger: l}
}

func (e *LogExecutor) Name() string { return "log" }

func (e *LogExecutor) Execute(ctx context.Context, cmd Command) error {
	e.logger.InfoContext(ctx, "command", "id", cmd.ID, "command", cmd.Name, "args", cmd.Args)
	return nil
}
