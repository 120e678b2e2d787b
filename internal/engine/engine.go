package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gyaneshwarpardhi/serialevent/internal/command"
	"github.com/gyaneshwarpardhi/serialevent/internal/config"
	"github.com/gyaneshwarpardhi/serialevent/internal/history"
	"github.com/gyaneshwarpardhi/serialevent/internal/metrics"
	"github.com/gyaneshwarpardhi/serialevent/internal/rule"
)

const (
	// scratchSize is the per-read buffer used while draining the source.
	scratchSize = 100
	// maxDrain caps one readiness signal; anything beyond it is picked up
	// on the next signal.
	maxDrain = 4096
)

// Source is the readable side of the line source. A read that would block
// returns (0, nil).
type Source interface {
	Read(p []byte) (int, error)
}

// Engine runs the intake loop: it drains the line source, records lines in
// the history buffer and fires matching rules through the dispatch pool.
type Engine struct {
	rules    atomic.Pointer[rule.Set]
	history  *history.Buffer
	registry *command.Registry
	pool     *workerPool[[]command.Command]
	conf     config.DispatchConf
}

// New creates an Engine using conf and starts the dispatch workers.
func New(ctx context.Context, rules *rule.Set, hist *history.Buffer, reg *command.Registry, conf config.DispatchConf) *Engine {
	e := &Engine{
		history:  hist,
		registry: reg,
		conf:     conf,
	}
	if rules == nil {
		rules = rule.NewSet()
	}
	e.rules.Store(rules)

	e.pool = newWorkerPool[[]command.Command](
		ctx,
		conf.Workers,
		conf.QueueDepth,
		e.execute,
	)
	return e
}

// SwapRules atomically replaces the rule set (used on hot-reload).
func (e *Engine) SwapRules(s *rule.Set) {
	if s == nil {
		s = rule.NewSet()
	}
	e.rules.Store(s)
}

// Rules returns the active rule set.
func (e *Engine) Rules() *rule.Set {
	return e.rules.Load()
}

// History returns the shared history buffer.
func (e *Engine) History() *history.Buffer {
	return e.history
}

// HandleReady is the readiness callback for the line source. It drains what
// is available without blocking, then processes the result as one line.
// It returns false once the source is closed, asking the caller to stop
// delivering signals.
func (e *Engine) HandleReady(src Source) bool {
	buf := make([]byte, scratchSize)
	var raw []byte
	keep := true
	for len(raw) < maxDrain {
		n, err := src.Read(buf)
		if err != nil {
			if errors.Is(err, os.ErrClosed) || errors.Is(err, io.EOF) {
				keep = false
			} else {
				metrics.ReadErrors.Inc()
				slog.Warn("line source read failed", "err", err)
			}
			break
		}
		if n == 0 {
			break
		}
		raw = append(raw, buf[:n]...)
	}
	e.ProcessLine(string(raw))
	return keep
}

// ProcessLine normalizes raw, records it and evaluates every rule against it
// in order. Lines that are empty once control characters are stripped are
// ignored entirely. It reports whether the line was recorded.
func (e *Engine) ProcessLine(raw string) bool {
	line := Normalize(raw)
	if line == "" {
		metrics.LinesIgnored.Inc()
		return false
	}
	size := e.history.Push(line)
	metrics.HistorySize.Set(float64(size))
	metrics.LinesReceived.Inc()

	var batch []command.Command
	fired := e.Rules().Evaluate(line, command.DispatcherFunc(func(cmd command.Command) {
		batch = append(batch, cmd)
	}))
	slog.Debug("line processed", "line", line, "fired", fired)
	e.submit(batch)
	return true
}

// Normalize removes ASCII control characters (0x00–0x1F and 0x7F).
func Normalize(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c < 0x20 || c == 0x7f {
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

// Dispatch hands cmd to the worker pool without blocking. When the queue is
// full the command is dropped and counted.
func (e *Engine) Dispatch(cmd command.Command) {
	e.submit([]command.Command{cmd})
}

// submit queues the commands fired by one line as a single job, so a worker
// runs them in rule order. A full queue drops the whole batch.
func (e *Engine) submit(batch []command.Command) {
	if len(batch) == 0 {
		return
	}
	for i := range batch {
		batch[i].ID = uuid.New().String()
	}
	if !e.pool.Submit(batch) {
		metrics.CommandsDropped.Add(float64(len(batch)))
		for _, cmd := range batch {
			slog.Warn("dispatch queue full; command dropped", "command", cmd.Name, "id", cmd.ID)
		}
		return
	}
	metrics.QueueUtilization.Set(e.QueueUtilization())
}

// QueueUtilization returns queue used / capacity (0–1).
func (e *Engine) QueueUtilization() float64 {
	if e.pool.QueueCap() == 0 {
		return 0
	}
	return float64(e.pool.QueueLen()) / float64(e.pool.QueueCap())
}

// execute runs a batch in order. A failed command does not stop the rest.
func (e *Engine) execute(ctx context.Context, batch []command.Command) error {
	var errs []error
	for _, cmd := range batch {
		if err := e.executeOne(ctx, cmd); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e *Engine) executeOne(ctx context.Context, cmd command.Command) error {
	exec, err := e.registry.Resolve(cmd)
	if err != nil {
		metrics.CommandsDispatched.WithLabelValues("none", "error").Inc()
		slog.Error("no backend for command", "command", cmd.Name, "id", cmd.ID, "err", err)
		return err
	}

	if e.conf.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(e.conf.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	start := time.Now()
	err = exec.Execute(ctx, cmd)
	metrics.CommandDuration.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.CommandsDispatched.WithLabelValues(exec.Name(), "error").Inc()
		slog.Error("command failed", "command", cmd.Name, "id", cmd.ID, "backend", exec.Name(), "err", err)
		return err
	}
	metrics.CommandsDispatched.WithLabelValues(exec.Name(), "success").Inc()
	return nil
}

// Shutdown stops accepting commands and waits for queued ones to finish.
func (e *Engine) Shutdown() {
	e.pool.Drain()
}
