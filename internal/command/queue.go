package command

import (
	"context"
	"encoding/json"
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

// QueueExecutor appends commands to a Redis list for an out-of-band worker.
type QueueExecutor struct {
	client *backend.Client
	key    string
}

// QueueOption configures a QueueExecutor.
type QueueOption func(*QueueExecutor)

// WithKey sets the list key commands are pushed to.
func WithKey(key string) QueueOption {
	return func(q *QueueExecutor) {
		q.key = key
	}
}

// NewQueueExecutor connects to the Redis server at address.
func NewQueueExecutor(address, password string, db int, opts ...QueueOption) *QueueExecutor {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewQueueExecutorFromClient(rdb, opts...)
}

// NewQueueExecutorFromClient wraps an existing client.
func NewQueueExecutorFromClient(client *backend.Client, opts ...QueueOption) *QueueExecutor {
	q := &QueueExecutor{
		client: client,
		key:    "serialevent:commands",
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *QueueExecutor) Name() string { return "queue" }

// Key returns the list key.
func (q *QueueExecutor) Key() string { return q.key }

func (q *QueueExecutor) Execute(ctx context.Context, cmd Command) error {
	payload := cmd.Payload()
	if cmd.ID != "" {
		payload["id"] = cmd.ID
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode command %q: %w", cmd.Name, err)
	}
	if err := q.client.RPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("enqueue command %q: %w", cmd.Name, err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (q *QueueExecutor) Close() error {
	return q.client.Close()
}
