package command

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueExecutor_PushesJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	q := NewQueueExecutorFromClient(client, WithKey("test:cmds"))
	defer q.Close()

	err := q.Execute(context.Background(), Command{
		ID:   "id-1",
		Name: "Volume Set",
		Args: []string{"80"},
	})
	require.NoError(t, err)

	items, err := mr.List("test:cmds")
	require.NoError(t, err)
	require.Len(t, items, 1)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(items[0]), &got))
	assert.Equal(t, "Volume Set", got["command"])
	assert.Equal(t, "id-1", got["id"])
	assert.Equal(t, []any{"80"}, got["args"])
}

func TestQueueExecutor_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	q := NewQueueExecutor(mr.Addr(), "", 0)
	assert.Equal(t, "serialevent:commands", q.Key())
	mr.Close()

	err := q.Execute(context.Background(), Command{Name: "x"})
	assert.Error(t, err)
	_ = q.Close()
}
