package actors

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"go-heb/internal/core"
)

// RedisJournal is an actor that appends every event it sees to a Redis
// list, giving the pipeline a history that outlives the process. Register
// it on each bus whose traffic should be journaled.
type RedisJournal struct {
	mu      sync.Mutex
	client  *redis.Client
	options *redis.Options
	key     string
	logger  zerolog.Logger
	closed  bool
}

// NewRedisJournal returns a journal writing to the list stored at key.
func NewRedisJournal(opts *redis.Options, key string, logger *zerolog.Logger) *RedisJournal {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &RedisJournal{
		client:  redis.NewClient(opts),
		options: opts,
		key:     key,
		logger:  *logger,
	}
}

// conn pings the server and reconnects if necessary.
func (j *RedisJournal) conn(ctx context.Context) *redis.Client {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.client.Ping(ctx).Err(); err != nil {
		j.logger.Warn().Err(err).Msg("journal reconnecting to Redis")
		j.client = redis.NewClient(j.options)
	}
	return j.client
}

// Act appends the event to the journal list.
func (j *RedisJournal) Act(ctx context.Context, event core.Event, _ core.Emitter) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	return j.conn(ctx).RPush(ctx, j.key, data).Err()
}

// Events returns the journaled history in append order.
func (j *RedisJournal) Events(ctx context.Context) ([]core.Event, error) {
	raw, err := j.conn(ctx).LRange(ctx, j.key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	events := make([]core.Event, 0, len(raw))
	for _, item := range raw {
		var ev core.Event
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			return nil, fmt.Errorf("decode journal entry: %w", err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// Close releases the Redis connection. Safe to call more than once.
func (j *RedisJournal) Close(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.client.Close()
}

var _ core.Actor = (*RedisJournal)(nil)
