package actors

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"go-heb/internal/core"
)

// RedisRelay is an actor that republishes bus events onto a Redis pub/sub
// topic so out-of-process observers can follow the pipeline. The dispatcher
// itself stays in-process; the relay is an ordinary actor at the boundary.
type RedisRelay struct {
	mu            sync.Mutex
	client        *redis.Client
	options       *redis.Options
	topic         string
	subscriptions []*redis.PubSub
	logger        zerolog.Logger
	closed        bool
}

// NewRedisRelay returns a relay publishing to the given pub/sub topic.
func NewRedisRelay(opts *redis.Options, topic string, logger *zerolog.Logger) *RedisRelay {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &RedisRelay{
		client:  redis.NewClient(opts),
		options: opts,
		topic:   topic,
		logger:  *logger,
	}
}

// conn pings the server and reconnects if necessary.
func (r *RedisRelay) conn(ctx context.Context) *redis.Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.client.Ping(ctx).Err(); err != nil {
		r.logger.Warn().Err(err).Msg("relay reconnecting to Redis")
		r.client = redis.NewClient(r.options)
	}
	return r.client
}

// Act republishes the event on the relay topic.
func (r *RedisRelay) Act(ctx context.Context, event core.Event, _ core.Emitter) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	return r.conn(ctx).Publish(ctx, r.topic, data).Err()
}

// Listen subscribes to the relay topic and decodes relayed events until
// ctx is cancelled. Malformed messages are skipped.
func (r *RedisRelay) Listen(ctx context.Context) (<-chan core.Event, error) {
	pubsub := r.conn(ctx).Subscribe(ctx, r.topic)
	r.mu.Lock()
	r.subscriptions = append(r.subscriptions, pubsub)
	r.mu.Unlock()

	ch := make(chan core.Event)
	go func() {
		defer close(ch)
		for {
			msg, err := pubsub.ReceiveMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				r.mu.Lock()
				closed := r.closed
				r.mu.Unlock()
				if closed {
					return
				}
				r.logger.Warn().Err(err).Msg("relay receive error")
				time.Sleep(time.Second)
				continue
			}
			var ev core.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err == nil {
				ch <- ev
			}
		}
	}()
	return ch, nil
}

// Close terminates all subscriptions and releases the Redis connection.
// Safe to call more than once.
func (r *RedisRelay) Close(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	for _, ps := range r.subscriptions {
		_ = ps.Close()
	}
	r.subscriptions = nil
	return r.client.Close()
}

var _ core.Actor = (*RedisRelay)(nil)
