// Package pattern compiles the regular expressions used by rule conditions
// and modifiers. Patterns use ECMAScript syntax and match case-insensitively.
package pattern

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// MatchTimeout bounds a single match attempt. Backtracking patterns that run
// longer than this fail with an error instead of stalling the intake loop.
const MatchTimeout = 250 * time.Millisecond

const options = regexp2.ECMAScript | regexp2.IgnoreCase

// Regexp is a compiled pattern that supports both search and full-match use.
type Regexp struct {
	source string
	search *regexp2.Regexp
	full   *regexp2.Regexp
}

// Compile validates expr and prepares it for searching and full matching.
func Compile(expr string) (*Regexp, error) {
	search, err := regexp2.Compile(expr, options)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, err)
	}
	search.MatchTimeout = MatchTimeout

	// Only wrap patterns that compiled on their own.
	full, err := regexp2.Compile(`^(?:`+expr+`)$`, options)
	if err != nil {
		return nil, fmt.Errorf("compile anchored %q: %w", expr, err)
	}
	full.MatchTimeout = MatchTimeout

	return &Regexp{source: expr, search: search, full: full}, nil
}

// String returns the source pattern.
func (r *Regexp) String() string { return r.source }

// Groups returns the number of capturing groups, not counting the whole match.
func (r *Regexp) Groups() int {
	return len(r.search.GetGroupNumbers()) - 1
}

// Search reports whether the pattern matches anywhere in s.
func (r *Regexp) Search(s string) (bool, error) {
	ok, err := r.search.MatchString(s)
	if err != nil {
		return false, fmt.Errorf("match %q: %w", r.source, err)
	}
	return ok, nil
}

// FullMatch matches the pattern against the whole of s and returns the text
// of every capturing group. ok is false when s does not match in full.
func (r *Regexp) FullMatch(s string) (groups []string, ok bool, err error) {
	m, err := r.full.FindStringMatch(s)
	if err != nil {
		return nil, false, fmt.Errorf("match %q: %w", r.source, err)
	}
	// "$" also matches before a trailing newline; require the whole input.
	if m == nil || m.Index != 0 || m.Length != utf8.RuneCountInString(s) {
		return nil, false, nil
	}
	all := m.Groups()
	groups = make([]string, 0, len(all)-1)
	for _, g := range all[1:] {
		groups = append(groups, g.String())
	}
	return groups, true, nil
}
