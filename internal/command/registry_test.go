package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedExec struct{ name string }

func (n namedExec) Name() string                           { return n.name }
func (n namedExec) Execute(context.Context, Command) error { return nil }

func TestRegistry_DefaultAndRoutes(t *testing.T) {
	r := NewRegistry()
	r.Register(namedExec{"fpp"})
	r.Register(namedExec{"queue"})

	e, err := r.Resolve(Command{Name: "Start Playlist"})
	require.NoError(t, err)
	assert.Equal(t, "fpp", e.Name(), "first registered is the default")

	require.NoError(t, r.Route("Start Playlist", "queue"))
	e, err = r.Resolve(Command{Name: "Start Playlist"})
	require.NoError(t, err)
	assert.Equal(t, "queue", e.Name())

	require.NoError(t, r.SetDefault("queue"))
	e, err = r.Resolve(Command{Name: "Other"})
	require.NoError(t, err)
	assert.Equal(t, "queue", e.Name())

	assert.Equal(t, []string{"fpp", "queue"}, r.Backends())
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve(Command{Name: "x"})
	assert.Error(t, err)

	r.Register(namedExec{"log"})
	assert.Error(t, r.Route("x", "missing"))
	assert.Error(t, r.SetDefault("missing"))
	assert.Panics(t, func() { r.Register(namedExec{"log"}) })
}
