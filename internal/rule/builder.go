package rule

import (
	"fmt"
	"log/slog"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"

	"github.com/gyaneshwarpardhi/serialevent/internal/command"
	"github.com/gyaneshwarpardhi/serialevent/internal/condition"
	"github.com/gyaneshwarpardhi/serialevent/internal/modifier"
)

// entry is the recognised shape of one serialEvents item. Keys the rule does
// not consume are collected in Rest and become the command template params.
type entry struct {
	Description    string         `mapstructure:"description"`
	Condition      string         `mapstructure:"condition"`
	ConditionValue string         `mapstructure:"conditionValue"`
	Modifier       string         `mapstructure:"modifier"`
	ModifierValue  string         `mapstructure:"modifierValue"`
	Args           []string       `mapstructure:"args"`
	ArgTypes       []string       `mapstructure:"argTypes"`
	Command        string         `mapstructure:"command"`
	Rest           map[string]any `mapstructure:",remain"`
}

// Build compiles configuration entries into a Set. Entries that cannot be
// decoded are skipped and reported; the remaining rules keep their order.
// All patterns are compiled here; nothing is parsed at evaluation time.
func Build(entries []any) (*Set, []error) {
	var (
		rules []*Rule
		errs  []error
	)
	for i, raw := range entries {
		r, err := buildRule(i, raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("serialEvents[%d]: %w", i, err))
			continue
		}
		rules = append(rules, r)
	}
	return NewSet(rules...), errs
}

// boolToText renders booleans as "true"/"false", the form FPP reads for bool
// args. Weak decoding alone would produce "1"/"0".
func boolToText(from, to reflect.Kind, data any) (any, error) {
	if from == reflect.Bool && to == reflect.String {
		return strconv.FormatBool(data.(bool)), nil
	}
	return data, nil
}

func buildRule(index int, raw any) (*Rule, error) {
	if _, ok := raw.(map[string]any); !ok {
		return nil, fmt.Errorf("expected an object, got %T", raw)
	}
	var e entry
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncKind(boolToText),
		WeaklyTypedInput: true,
		Result:           &e,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	cond, err := condition.Parse(e.Condition, e.ConditionValue)
	if err != nil {
		return nil, err
	}
	mod, err := modifier.Parse(e.Modifier, e.ModifierValue)
	if err != nil {
		slog.Warn("unknown modifier; passing values through", "rule", index, "err", err)
	}

	args := make([]ArgSpec, len(e.Args))
	for i, tpl := range e.Args {
		args[i] = ArgSpec{Template: tpl}
		if i < len(e.ArgTypes) {
			args[i].Type = ParseArgType(e.ArgTypes[i])
		}
	}

	if e.Command == "" {
		slog.Warn("rule has no command name", "rule", index, "description", e.Description)
	}

	return &Rule{
		Index:       index,
		Description: e.Description,
		Condition:   cond,
		Modifier:    mod,
		Template:    command.Template{Name: e.Command, Params: e.Rest},
		Args:        args,
	}, nil
}
