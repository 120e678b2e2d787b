package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LinesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "serialevent_lines_received_total",
		Help: "Total number of non-empty lines recorded from the line source.",
	})

	LinesIgnored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "serialevent_lines_ignored_total",
		Help: "Total number of reads that were empty after control characters were stripped.",
	})

	ReadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "serialevent_read_errors_total",
		Help: "Total number of line source read errors that ended a drain early.",
	})

	RulesFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "serialevent_rules_fired_total",
		Help: "Total number of rule firings, labelled by rule description.",
	}, []string{"rule"})

	PatternErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "serialevent_pattern_errors_total",
		Help: "Regex compile/match and numeric spec failures, labelled by component.",
	}, []string{"component"})

	CommandsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "serialevent_commands_dispatched_total",
		Help: "Total number of commands handed to a backend, labelled by backend and status.",
	}, []string{"backend", "status"})

	CommandsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "serialevent_commands_dropped_total",
		Help: "Total number of commands rejected because the dispatch queue was full.",
	})

	CommandDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "serialevent_command_duration_ms",
		Help:    "Backend command execution latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	HistorySize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "serialevent_history_size",
		Help: "Current number of lines held in the history buffer.",
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "serialevent_dispatch_queue_utilization_ratio",
		Help: "Current dispatch queue utilization (0–1).",
	})
)
