// Package modifier derives the value a rule substitutes into its command
// arguments from the line that fired it.
package modifier

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gyaneshwarpardhi/serialevent/internal/metrics"
	"github.com/gyaneshwarpardhi/serialevent/internal/pattern"
)

// Kind names a modifier variant as it appears in configuration.
type Kind string

const (
	KindNone      Kind = "none"
	KindSubstring Kind = "substring"
	KindRegex     Kind = "regex"
)

// Modifier transforms a matched line. Implementations: None, Substring, RegexExtract.
type Modifier interface {
	Kind() Kind
	Spec() string
	Apply(value string) string
	modifier()
}

// None returns the line unchanged.
type None struct{}

// Substring extracts Length characters starting at Start. A negative Length
// means "to the end". When the spec did not parse, Apply is the identity.
type Substring struct {
	Start  int
	Length int
	spec   string
	err    error
}

// RegexExtract returns the single capturing group of a full, case-insensitive
// match. Anything else (no match, zero or several groups, a bad pattern)
// returns the input unchanged.
type RegexExtract struct {
	source string
	re     *pattern.Regexp
	err    error
}

func (None) modifier()          {}
func (*Substring) modifier()    {}
func (*RegexExtract) modifier() {}

func (None) Kind() Kind          { return KindNone }
func (*Substring) Kind() Kind    { return KindSubstring }
func (*RegexExtract) Kind() Kind { return KindRegex }

func (None) Spec() string            { return "" }
func (m *Substring) Spec() string    { return m.spec }
func (m *RegexExtract) Spec() string { return m.source }

func (None) Apply(value string) string { return value }

var errNegative = errors.New("negative value")

// NewSubstring parses "", "N" (length from 0) or "start,length".
func NewSubstring(spec string) *Substring {
	m := &Substring{Length: -1, spec: spec}
	s := strings.TrimSpace(spec)
	if s == "" {
		return m
	}
	parts := strings.Split(s, ",")
	var nums []int
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err == nil && n < 0 {
			err = errNegative
		}
		if err != nil {
			m.err = fmt.Errorf("substring %q: %w", spec, err)
			return m
		}
		nums = append(nums, n)
	}
	switch len(nums) {
	case 1:
		m.Length = nums[0]
	case 2:
		m.Start, m.Length = nums[0], nums[1]
	default:
		m.err = fmt.Errorf("substring %q: want \"length\" or \"start,length\"", spec)
	}
	return m
}

// Err returns the spec parse error, if any.
func (m *Substring) Err() error { return m.err }

func (m *Substring) Apply(value string) string {
	if m.err != nil {
		metrics.PatternErrors.WithLabelValues("modifier").Inc()
		slog.Error("modifier syntax error", "spec", m.spec, "err", m.err)
		return value
	}
	runes := []rune(value)
	if m.Start > len(runes) {
		return ""
	}
	end := len(runes)
	if m.Length >= 0 && m.Length < end-m.Start {
		end = m.Start + m.Length
	}
	return string(runes[m.Start:end])
}

// NewRegexExtract compiles expr once; a compile error is reported on every Apply.
func NewRegexExtract(expr string) *RegexExtract {
	re, err := pattern.Compile(expr)
	if err != nil {
		slog.Warn("modifier regex does not compile; value will pass through", "pattern", expr, "err", err)
	} else if n := re.Groups(); n != 1 {
		slog.Warn("modifier regex needs exactly one capturing group; value will pass through", "pattern", expr, "groups", n)
	}
	return &RegexExtract{source: expr, re: re, err: err}
}

// Err returns the compile error, if any.
func (m *RegexExtract) Err() error { return m.err }

func (m *RegexExtract) Apply(value string) string {
	if m.err != nil {
		metrics.PatternErrors.WithLabelValues("modifier").Inc()
		slog.Error("regex error", "pattern", m.source, "err", m.err)
		return value
	}
	groups, ok, err := m.re.FullMatch(value)
	if err != nil {
		metrics.PatternErrors.WithLabelValues("modifier").Inc()
		slog.Error("regex error", "pattern", m.source, "err", err)
		return value
	}
	if !ok || len(groups) != 1 {
		return value
	}
	return groups[0]
}

// Parse builds a Modifier from the configured kind and spec.
// An empty kind means none; kind names are case-insensitive.
func Parse(kind, spec string) (Modifier, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(kind))) {
	case "", KindNone:
		return None{}, nil
	case KindSubstring:
		return NewSubstring(spec), nil
	case KindRegex:
		return NewRegexExtract(spec), nil
	}
	return None{}, fmt.Errorf("unknown modifier %q", kind)
}
