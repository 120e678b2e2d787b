package config

import (
	"fmt"
	"strings"

	"github.com/gyaneshwarpardhi/serialevent/internal/rule"
	"github.com/gyaneshwarpardhi/serialevent/internal/serial"
)

var backends = map[string]bool{"fpp": true, "queue": true, "log": true}

// Validate checks the config for:
//   - A line source port, a positive speed and a well-formed frame format
//   - Dispatcher settings and routes that name a known backend
//   - Rule entries that decode and use known condition kinds
//
// Problems are reported together. Serving never stops on them: a bad port
// disables intake and a bad rule entry is skipped.
func Validate(cfg *Config) error {
	var errs []string

	if strings.TrimSpace(cfg.Port) == "" {
		errs = append(errs, "port is required")
	}
	if cfg.Speed <= 0 {
		errs = append(errs, fmt.Sprintf("speed must be positive, got %d", cfg.Speed))
	} else if err := serial.CheckSpeed(cfg.Speed); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := serial.ParseFormat(cfg.Format); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.HistorySize < 0 {
		errs = append(errs, fmt.Sprintf("historySize must not be negative, got %d", cfg.HistorySize))
	}

	d := cfg.Dispatch
	if d.Workers < 0 || d.QueueDepth < 0 || d.TimeoutMs < 0 {
		errs = append(errs, "dispatch: workers, queueDepth and timeoutMs must not be negative")
	}
	if !backends[d.Backend] {
		errs = append(errs, fmt.Sprintf("dispatch: unknown backend %q", d.Backend))
	}
	for name, b := range d.Routes {
		if !backends[b] {
			errs = append(errs, fmt.Sprintf("dispatch: route %q: unknown backend %q", name, b))
		}
	}
	if usesBackend(d, "queue") && cfg.Queue.Addr == "" {
		errs = append(errs, "queue.addr is required when the queue backend is used")
	}

	if len(cfg.SerialEvents) == 0 {
		errs = append(errs, "serialEvents is empty; no rule will ever fire")
	}
	_, ruleErrs := rule.Build(cfg.SerialEvents)
	for _, err := range ruleErrs {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func usesBackend(d DispatchConf, name string) bool {
	if d.Backend == name {
		return true
	}
	for _, b := range d.Routes {
		if b == name {
			return true
		}
	}
	return false
}
