package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/serialevent/internal/api"
	"github.com/gyaneshwarpardhi/serialevent/internal/command"
	"github.com/gyaneshwarpardhi/serialevent/internal/config"
	"github.com/gyaneshwarpardhi/serialevent/internal/engine"
	"github.com/gyaneshwarpardhi/serialevent/internal/history"
	"github.com/gyaneshwarpardhi/serialevent/internal/rule"
	"github.com/gyaneshwarpardhi/serialevent/internal/serial"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Read the serial port and serve the query API",
	Long: `Opens the configured serial port, fires rules for every line read and serves
the history and rule API over HTTP. A missing document or port only disables
intake; the API keeps running.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addServeFlags(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("addr", ":8080", "HTTP listen address")
	cmd.Flags().Bool("watch", true, "Reload rules when the document changes")
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	watch, _ := cmd.Flags().GetBool("watch")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := loadConfig(cmd)
	cfg := config.Default()
	if err != nil {
		slog.Error("config unavailable; intake disabled", "err", err)
		loader = nil
	} else {
		cfg = loader.Config()
		if err := config.Validate(cfg); err != nil {
			slog.Warn("config has problems", "err", err)
		}
	}

	// ── Rules, backends, engine ──────────────────────────────────────────────
	set := buildRules(cfg)
	reg, closeBackends := newRegistry(cfg)
	defer closeBackends()

	workCtx, cancelWork := context.WithCancel(context.Background())
	defer cancelWork()
	eng := engine.New(workCtx, set, history.New(cfg.HistorySize), reg, cfg.Dispatch)

	// ── Intake ───────────────────────────────────────────────────────────────
	src := cfg.LineSource()
	intakeDone := make(chan struct{})
	if loader == nil || src.Channel == "" {
		close(intakeDone)
	} else if port, err := serial.Open(src.Channel, src.Speed, src.Format); err != nil {
		slog.Error("cannot open line source; intake disabled", "port", src.Channel, "err", err)
		close(intakeDone)
	} else {
		slog.Info("line source open", "port", port.Name(), "speed", src.Speed, "format", src.Format)
		poller := serial.NewPoller(0)
		poller.Register(port.Fd(), func(int) bool { return eng.HandleReady(port) })
		go func() {
			defer close(intakeDone)
			defer port.Close()
			if err := poller.Run(ctx); err != nil {
				slog.Error("intake stopped", "err", err)
			}
		}()
	}

	// ── Hot-reload watcher ───────────────────────────────────────────────────
	if loader != nil {
		loader.OnChange(func(next *config.Config) {
			eng.SwapRules(buildRules(next))
			slog.Info("rules reloaded", "rules", eng.Rules().Len())
			if next.LineSource() != src {
				slog.Warn("line source settings changed; restart to apply", "port", next.LineSource().Channel)
			}
		})
		if watch {
			stopWatch, err := loader.Watch()
			if err != nil {
				slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
			} else {
				defer stopWatch()
			}
		}
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.New(eng, loader),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	var runErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
		stop()
	case <-ctx.Done():
		slog.Info("shutting down…")
	}

	shutCtx, shutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		slog.Warn("graceful shutdown did not complete", "err", err)
		_ = srv.Close()
	}
	<-intakeDone
	eng.Shutdown()
	slog.Info("goodbye")
	return runErr
}

// buildRules compiles the document's rules, logging the entries it skips.
func buildRules(cfg *config.Config) *rule.Set {
	set, errs := rule.Build(cfg.SerialEvents)
	for _, err := range errs {
		slog.Warn("rule skipped", "err", err)
	}
	return set
}

// newRegistry registers every configured command backend. Backends are fixed
// for the life of the process; reloads only replace the rules.
func newRegistry(cfg *config.Config) (*command.Registry, func()) {
	reg := command.NewRegistry()
	reg.Register(command.NewHTTPExecutor(cfg.FPP.URL))
	reg.Register(command.NewLogExecutor(nil))

	closeFn := func() {}
	if cfg.Queue.Addr != "" {
		q := command.NewQueueExecutor(cfg.Queue.Addr, cfg.Queue.Password, cfg.Queue.DB, command.WithKey(cfg.Queue.Key))
		reg.Register(q)
		closeFn = func() { _ = q.Close() }
	}

	if err := reg.SetDefault(cfg.Dispatch.Backend); err != nil {
		slog.Warn("default backend unavailable; using fpp", "err", err)
	}
	for name, backend := range cfg.Dispatch.Routes {
		if err := reg.Route(name, backend); err != nil {
			slog.Warn("route ignored", "command", name, "err", err)
		}
	}
	slog.Info("command backends ready", "backends", reg.Backends())
	return reg, closeFn
}
