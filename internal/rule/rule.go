// Package rule pairs conditions and modifiers with command templates and
// evaluates them, in order, against incoming lines.
package rule

import (
	"fmt"
	"strings"

	"github.com/gyaneshwarpardhi/serialevent/internal/command"
	"github.com/gyaneshwarpardhi/serialevent/internal/condition"
	"github.com/gyaneshwarpardhi/serialevent/internal/modifier"
)

// ValueToken is replaced by the derived value in string arguments.
const ValueToken = "%VAL%"

// ArgType controls whether an argument template receives the derived value.
type ArgType int

const (
	ArgString ArgType = iota
	ArgBool
	ArgInt
)

func (t ArgType) String() string {
	switch t {
	case ArgBool:
		return "bool"
	case ArgInt:
		return "int"
	}
	return "string"
}

// MarshalText encodes the type tag as it appears in configuration.
func (t ArgType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// ParseArgType maps "bool" and "int"; every other tag is a string argument.
func ParseArgType(s string) ArgType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bool":
		return ArgBool
	case "int":
		return ArgInt
	}
	return ArgString
}

// ArgSpec is one positional argument template.
type ArgSpec struct {
	Template string  `json:"template"`
	Type     ArgType `json:"type"`
}

// Render fills the template with value. Only string arguments are substituted.
func (a ArgSpec) Render(value string) string {
	if a.Type != ArgString {
		return a.Template
	}
	return strings.ReplaceAll(a.Template, ValueToken, value)
}

// Rule is built once from configuration and never mutated afterwards.
type Rule struct {
	Index       int
	Description string
	Condition   condition.Condition
	Modifier    modifier.Modifier
	Template    command.Template
	Args        []ArgSpec
}

// Name identifies the rule in logs and metrics.
func (r *Rule) Name() string {
	if r.Description != "" {
		return r.Description
	}
	return fmt.Sprintf("rule[%d]", r.Index)
}

// Fires reports whether the rule's condition matches line.
func (r *Rule) Fires(line string) bool {
	return r.Condition.Matches(line)
}

// Derive applies the rule's modifier to line.
func (r *Rule) Derive(line string) string {
	return r.Modifier.Apply(line)
}

// Materialize clones the template and appends the rendered arguments in order.
func (r *Rule) Materialize(value string) command.Command {
	args := make([]string, len(r.Args))
	for i, a := range r.Args {
		args[i] = a.Render(value)
	}
	return r.Template.New(args)
}

// Invoke hands the materialized command to d without waiting for it.
func (r *Rule) Invoke(value string, d command.Dispatcher) {
	d.Dispatch(r.Materialize(value))
}

// Summary is the read-only view of a rule served by the API.
type Summary struct {
	Index       int            `json:"index"`
	Description string         `json:"description"`
	Condition   string         `json:"condition"`
	Value       string         `json:"condition_value"`
	Modifier    string         `json:"modifier"`
	Spec        string         `json:"modifier_value,omitempty"`
	Command     string         `json:"command"`
	Params      map[string]any `json:"params,omitempty"`
	Args        []ArgSpec      `json:"args"`
}

// Summarize describes r.
func (r *Rule) Summarize() Summary {
	return Summary{
		Index:       r.Index,
		Description: r.Description,
		Condition:   string(r.Condition.Kind()),
		Value:       r.Condition.Pattern(),
		Modifier:    string(r.Modifier.Kind()),
		Spec:        r.Modifier.Spec(),
		Command:     r.Template.Name,
		Params:      r.Template.Params,
		Args:        r.Args,
	}
}
