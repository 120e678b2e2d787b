package condition

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gyaneshwarpardhi/serialevent/internal/metrics"
	"github.com/gyaneshwarpardhi/serialevent/internal/pattern"
)

// Kind names a condition variant as it appears in configuration.
type Kind string

const (
	KindContains   Kind = "contains"
	KindStartsWith Kind = "startswith"
	KindEndsWith   Kind = "endswith"
	KindRegex      Kind = "regex"
)

// Condition decides whether a line satisfies a configured predicate.
// The set of implementations is closed: Contains, StartsWith, EndsWith, Regex.
type Condition interface {
	Kind() Kind
	Pattern() string
	Matches(line string) bool
	condition()
}

// Contains matches when Value occurs anywhere in the line (case-sensitive).
type Contains struct{ Value string }

// StartsWith matches lines that begin with Value.
type StartsWith struct{ Value string }

// EndsWith matches lines that end with Value.
type EndsWith struct{ Value string }

// Regex performs a case-insensitive, unanchored ECMAScript search.
// A pattern that fails to compile never matches.
type Regex struct {
	source string
	re     *pattern.Regexp
	err    error
}

func (Contains) condition()   {}
func (StartsWith) condition() {}
func (EndsWith) condition()   {}
func (*Regex) condition()     {}

func (Contains) Kind() Kind   { return KindContains }
func (StartsWith) Kind() Kind { return KindStartsWith }
func (EndsWith) Kind() Kind   { return KindEndsWith }
func (*Regex) Kind() Kind     { return KindRegex }

func (c Contains) Pattern() string   { return c.Value }
func (c StartsWith) Pattern() string { return c.Value }
func (c EndsWith) Pattern() string   { return c.Value }
func (c *Regex) Pattern() string     { return c.source }

func (c Contains) Matches(line string) bool   { return strings.Contains(line, c.Value) }
func (c StartsWith) Matches(line string) bool { return strings.HasPrefix(line, c.Value) }
func (c EndsWith) Matches(line string) bool   { return strings.HasSuffix(line, c.Value) }

// NewRegex compiles expr once. A compile error is kept and reported on every
// evaluation rather than rejecting the rule.
func NewRegex(expr string) *Regex {
	re, err := pattern.Compile(expr)
	if err != nil {
		slog.Warn("condition regex does not compile; rule will never fire", "pattern", expr, "err", err)
	}
	return &Regex{source: expr, re: re, err: err}
}

// Err returns the compile error, if any.
func (c *Regex) Err() error { return c.err }

func (c *Regex) Matches(line string) bool {
	if c.err != nil {
		metrics.PatternErrors.WithLabelValues("condition").Inc()
		slog.Error("regex error", "pattern", c.source, "err", c.err)
		return false
	}
	ok, err := c.re.Search(line)
	if err != nil {
		metrics.PatternErrors.WithLabelValues("condition").Inc()
		slog.Error("regex error", "pattern", c.source, "err", err)
		return false
	}
	return ok
}

// Parse builds a Condition from the configured kind and value.
// An empty kind means contains; kind names are case-insensitive.
func Parse(kind, value string) (Condition, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(kind))) {
	case "", KindContains:
		return Contains{Value: value}, nil
	case KindStartsWith:
		return StartsWith{Value: value}, nil
	case KindEndsWith:
		return EndsWith{Value: value}, nil
	case KindRegex:
		return NewRegex(value), nil
	}
	return nil, fmt.Errorf("unknown condition %q", kind)
}
