package modifier

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type applyCase struct {
	name  string
	kind  string
	spec  string
	value string
	want  string
}

func TestApply(t *testing.T) {
	cases := []applyCase{
		{name: "none", kind: "none", value: "HelloWorld", want: "HelloWorld"},
		{name: "default kind is none", kind: "", spec: "2,3", value: "HelloWorld", want: "HelloWorld"},

		{name: "substring start,length", kind: "substring", spec: "2,3", value: "HelloWorld", want: "llo"},
		{name: "substring length only", kind: "substring", spec: "5", value: "HelloWorld", want: "Hello"},
		{name: "substring empty spec", kind: "substring", spec: "", value: "HelloWorld", want: "HelloWorld"},
		{name: "substring spaces tolerated", kind: "substring", spec: " 5 , 5 ", value: "HelloWorld", want: "World"},
		{name: "substring length clamped", kind: "substring", spec: "5,100", value: "HelloWorld", want: "World"},
		{name: "substring start at end", kind: "substring", spec: "10,2", value: "HelloWorld", want: ""},
		{name: "substring start past end", kind: "substring", spec: "11,2", value: "HelloWorld", want: ""},
		{name: "substring zero length", kind: "substring", spec: "3,0", value: "HelloWorld", want: ""},
		{name: "substring counts characters", kind: "substring", spec: "1,2", value: "héllo", want: "él"},
		{name: "substring malformed", kind: "substring", spec: "a,b", value: "HelloWorld", want: "HelloWorld"},
		{name: "substring negative", kind: "substring", spec: "-1,3", value: "HelloWorld", want: "HelloWorld"},
		{name: "substring huge length", kind: "substring", spec: "1,9223372036854775807", value: "HelloWorld", want: "elloWorld"},
		{name: "substring huge start and length", kind: "substring", spec: "9223372036854775807,9223372036854775807", value: "HelloWorld", want: ""},
		{name: "substring huge length only", kind: "substring", spec: "9223372036854775807", value: "HelloWorld", want: "HelloWorld"},
		{name: "substring too many tokens", kind: "substring", spec: "1,2,3", value: "HelloWorld", want: "HelloWorld"},

		{name: "regex extract", kind: "regex", spec: `^ID:(\d+)$`, value: "ID:42", want: "42"},
		{name: "regex no match", kind: "regex", spec: `^ID:(\d+)$`, value: "ID:", want: "ID:"},
		{name: "regex is full match", kind: "regex", spec: `ID:(\d+)`, value: "XID:42", want: "XID:42"},
		{name: "regex case insensitive", kind: "regex", spec: `temp=(\d+)`, value: "TEMP=21", want: "21"},
		{name: "regex zero groups", kind: "regex", spec: `ID:\d+`, value: "ID:42", want: "ID:42"},
		{name: "regex two groups", kind: "regex", spec: `(ID):(\d+)`, value: "ID:42", want: "ID:42"},
		{name: "regex non-capturing does not count", kind: "regex", spec: `(?:ID|NO):(\d+)`, value: "NO:7", want: "7"},
		{name: "regex compile failure", kind: "regex", spec: `([`, value: "ID:42", want: "ID:42"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Parse(tc.kind, tc.spec)
			require.NoError(t, err)
			assert.Equal(t, tc.want, m.Apply(tc.value))
		})
	}
}

func TestNewSubstring_Fields(t *testing.T) {
	m := NewSubstring("2,3")
	require.NoError(t, m.Err())
	assert.Equal(t, 2, m.Start)
	assert.Equal(t, 3, m.Length)

	m = NewSubstring("7")
	require.NoError(t, m.Err())
	assert.Equal(t, 0, m.Start)
	assert.Equal(t, 7, m.Length)

	assert.Error(t, NewSubstring("x").Err())
	assert.Error(t, NewSubstring("1,-2").Err())
}

func TestParse_UnknownKind(t *testing.T) {
	m, err := Parse("uppercase", "")
	assert.Error(t, err)
	assert.Equal(t, KindNone, m.Kind(), "unknown kinds fall back to identity")
}

func TestParse_Kinds(t *testing.T) {
	m, err := Parse("SUBSTRING", "1")
	require.NoError(t, err)
	assert.Equal(t, KindSubstring, m.Kind())
	assert.Equal(t, "1", m.Spec())

	m, err = Parse("regex", "(a)")
	require.NoError(t, err)
	assert.Equal(t, KindRegex, m.Kind())
	assert.Equal(t, "(a)", m.Spec())
}

func TestNewRegexExtract_WarnsOnGroupCount(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	NewRegexExtract(`(ID):(\d+)`)
	assert.Contains(t, buf.String(), "exactly one capturing group")
	assert.Contains(t, buf.String(), "groups=2")

	buf.Reset()
	NewRegexExtract(`ID:(\d+)`)
	assert.Empty(t, buf.String())
}
