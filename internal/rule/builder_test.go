package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/serialevent/internal/condition"
	"github.com/gyaneshwarpardhi/serialevent/internal/modifier"
)

func TestBuild_FullEntry(t *testing.T) {
	s, errs := Build([]any{
		map[string]any{
			"description":      "Start show",
			"condition":        "regex",
			"conditionValue":   `^SHOW (\w+)$`,
			"modifier":         "regex",
			"modifierValue":    `SHOW (\w+)`,
			"command":          "Start Playlist",
			"args":             []any{"%VAL%", "true", "%VAL%"},
			"argTypes":         []any{"string", "bool"},
			"multisyncCommand": false,
			"multisyncHosts":   "",
		},
	})
	require.Empty(t, errs)
	require.Equal(t, 1, s.Len())

	r := s.Rules()[0]
	assert.Equal(t, "Start show", r.Description)
	assert.Equal(t, condition.KindRegex, r.Condition.Kind())
	assert.Equal(t, modifier.KindRegex, r.Modifier.Kind())
	assert.Equal(t, "Start Playlist", r.Template.Name)
	assert.Equal(t, map[string]any{"multisyncCommand": false, "multisyncHosts": ""}, r.Template.Params)
	assert.Equal(t, []ArgSpec{
		{Template: "%VAL%", Type: ArgString},
		{Template: "true", Type: ArgBool},
		{Template: "%VAL%", Type: ArgString},
	}, r.Args)

	cmd := r.Materialize(r.Derive("show xmas"))
	assert.Equal(t, []string{"xmas", "true", "xmas"}, cmd.Args)
}

func TestBuild_Defaults(t *testing.T) {
	s, errs := Build([]any{map[string]any{"conditionValue": "HELLO", "command": "Echo"}})
	require.Empty(t, errs)

	r := s.Rules()[0]
	assert.Equal(t, condition.KindContains, r.Condition.Kind())
	assert.Equal(t, modifier.KindNone, r.Modifier.Kind())
	assert.Empty(t, r.Args)
	assert.Empty(t, r.Template.Params)
}

func TestBuild_ExtraArgTypesIgnored(t *testing.T) {
	s, errs := Build([]any{map[string]any{
		"command":  "X",
		"args":     []any{"a"},
		"argTypes": []any{"int", "bool", "bool"},
	}})
	require.Empty(t, errs)
	assert.Equal(t, []ArgSpec{{Template: "a", Type: ArgInt}}, s.Rules()[0].Args)
}

func TestBuild_NumericArgsBecomeStrings(t *testing.T) {
	s, errs := Build([]any{map[string]any{
		"command":  "Volume Set",
		"args":     []any{80, true, false, 1.5},
		"argTypes": []any{"int", "bool", "bool"},
	}})
	require.Empty(t, errs)
	args := s.Rules()[0].Args
	require.Len(t, args, 4)
	assert.Equal(t, "80", args[0].Template)
	assert.Equal(t, "true", args[1].Template)
	assert.Equal(t, "false", args[2].Template)
	assert.Equal(t, "1.5", args[3].Template)

	cmd := s.Rules()[0].Materialize("ignored")
	assert.Equal(t, []string{"80", "true", "false", "1.5"}, cmd.Args)
}

func TestBuild_SkipsBadEntries(t *testing.T) {
	s, errs := Build([]any{
		map[string]any{"description": "ok-1", "command": "A"},
		"not an object",
		nil,
		map[string]any{"description": "bad kind", "condition": "fuzzy", "command": "B"},
		map[string]any{"description": "bad args", "args": map[string]any{"a": 1}},
		map[string]any{"description": "ok-2", "command": "C"},
	})
	assert.Len(t, errs, 4)

	require.Equal(t, 2, s.Len())
	assert.Equal(t, "ok-1", s.Rules()[0].Description)
	assert.Equal(t, 0, s.Rules()[0].Index)
	assert.Equal(t, "ok-2", s.Rules()[1].Description)
	assert.Equal(t, 5, s.Rules()[1].Index)
}

func TestBuild_UnknownModifierPassesThrough(t *testing.T) {
	s, errs := Build([]any{map[string]any{"modifier": "reverse", "command": "A"}})
	require.Empty(t, errs)
	assert.Equal(t, "abc", s.Rules()[0].Derive("abc"))
}

func TestSummaries(t *testing.T) {
	s, _ := Build([]any{map[string]any{
		"description":    "d",
		"condition":      "endswith",
		"conditionValue": "!",
		"modifier":       "substring",
		"modifierValue":  "0,2",
		"command":        "Cmd",
		"args":           []any{"%VAL%"},
	}})
	sum := s.Summaries()
	require.Len(t, sum, 1)
	assert.Equal(t, "endswith", sum[0].Condition)
	assert.Equal(t, "!", sum[0].Value)
	assert.Equal(t, "substring", sum[0].Modifier)
	assert.Equal(t, "0,2", sum[0].Spec)
	assert.Equal(t, "Cmd", sum[0].Command)
}
