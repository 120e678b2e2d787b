package rule

import (
	"github.com/gyaneshwarpardhi/serialevent/internal/command"
	"github.com/gyaneshwarpardhi/serialevent/internal/metrics"
)

// Set is an ordered, immutable collection of rules.
// Hot reload builds a new Set and swaps it in whole.
type Set struct {
	rules []*Rule
}

// NewSet wraps rules in configuration order.
func NewSet(rules ...*Rule) *Set {
	return &Set{rules: rules}
}

// Rules returns the rules in evaluation order.
func (s *Set) Rules() []*Rule {
	if s == nil {
		return nil
	}
	return s.rules
}

// Len returns the number of rules.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Firing records one rule that matched a line.
type Firing struct {
	Rule    string          `json:"rule"`
	Value   string          `json:"value"`
	Command command.Command `json:"command"`
}

// Evaluate fires every matching rule in order and returns how many fired.
// Each rule is independent: an earlier match never suppresses a later one.
func (s *Set) Evaluate(line string, d command.Dispatcher) int {
	fired := 0
	for _, r := range s.Rules() {
		if !r.Fires(line) {
			continue
		}
		r.Invoke(r.Derive(line), d)
		metrics.RulesFired.WithLabelValues(r.Name()).Inc()
		fired++
	}
	return fired
}

// Plan reports what Evaluate would dispatch for line without dispatching.
func (s *Set) Plan(line string) []Firing {
	var out []Firing
	for _, r := range s.Rules() {
		if !r.Fires(line) {
			continue
		}
		v := r.Derive(line)
		out = append(out, Firing{Rule: r.Name(), Value: v, Command: r.Materialize(v)})
	}
	return out
}

// Summaries describes every rule in order.
func (s *Set) Summaries() []Summary {
	out := make([]Summary, 0, s.Len())
	for _, r := range s.Rules() {
		out = append(out, r.Summarize())
	}
	return out
}
