// Package command models the materialized command a rule hands to an
// execution backend, and the backends themselves.
package command

import (
	"encoding/json"
	"maps"
)

// Template is the immutable command skeleton carried by a rule: the command
// name plus every configuration key the rule did not consume, verbatim.
type Template struct {
	Name   string         `json:"command"`
	Params map[string]any `json:"params,omitempty"`
}

// Command is a template materialized for one firing.
type Command struct {
	ID     string         `json:"-"`
	Name   string         `json:"command"`
	Params map[string]any `json:"-"`
	Args   []string       `json:"args"`
}

// New clones t into a Command with the given arguments.
func (t Template) New(args []string) Command {
	return Command{
		Name:   t.Name,
		Params: maps.Clone(t.Params),
		Args:   args,
	}
}

// Payload flattens the command into the shape the FPP command API accepts:
// pass-through params at the top level alongside "command" and "args".
func (c Command) Payload() map[string]any {
	out := make(map[string]any, len(c.Params)+2)
	for k, v := range c.Params {
		out[k] = v
	}
	out["command"] = c.Name
	args := c.Args
	if args == nil {
		args = []string{}
	}
	out["args"] = args
	return out
}

// MarshalJSON encodes Payload.
func (c Command) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Payload())
}
