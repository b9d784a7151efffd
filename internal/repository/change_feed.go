package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/class-planner-api/internal/models"
)

const feedBuffer = 64

// ChangeFeed broadcasts document change notices between API instances.
type ChangeFeed interface {
	Publish(ctx context.Context, event models.ChangeEvent) error
	Subscribe(ctx context.Context) (<-chan models.ChangeEvent, func(), error)
}

// RedisChangeFeed relays change notices over a Redis pub/sub channel.
type RedisChangeFeed struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisChangeFeed constructs a feed on channel.
func NewRedisChangeFeed(client *redis.Client, channel string, logger *zap.Logger) *RedisChangeFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisChangeFeed{client: client, channel: channel, logger: logger}
}

// Publish sends the event to every subscriber, including this process.
func (f *RedisChangeFeed) Publish(ctx context.Context, event models.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", f.channel, err)
	}
	return nil
}

// Subscribe listens until ctx ends or the returned cancel func is called.
func (f *RedisChangeFeed) Subscribe(ctx context.Context) (<-chan models.ChangeEvent, func(), error) {
	pubsub := f.client.Subscribe(ctx, f.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("redis subscribe %s: %w", f.channel, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	out := make(chan models.ChangeEvent, feedBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()
		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event models.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					f.logger.Warn("discarding malformed change event", zap.String("channel", f.channel), zap.Error(err))
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, cancel, nil
}

// LocalChangeFeed is an in-process feed used when Redis is disabled.
type LocalChangeFeed struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan models.ChangeEvent
	logger *zap.Logger
}

// NewLocalChangeFeed constructs an empty in-process feed.
func NewLocalChangeFeed(logger *zap.Logger) *LocalChangeFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalChangeFeed{subs: make(map[int]chan models.ChangeEvent), logger: logger}
}

// Publish fans the event out. Slow subscribers lose events rather than block writers.
func (f *LocalChangeFeed) Publish(ctx context.Context, event models.ChangeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, ch := range f.subs {
		select {
		case ch <- event:
		default:
			f.logger.Warn("change subscriber is full, dropping event", zap.Int("subscriber", id), zap.String("collection", event.Collection))
		}
	}
	return nil
}

// Subscribe registers a subscriber until ctx ends or cancel is called.
func (f *LocalChangeFeed) Subscribe(ctx context.Context) (<-chan models.ChangeEvent, func(), error) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	ch := make(chan models.ChangeEvent, feedBuffer)
	f.subs[id] = ch
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			close(ch)
			f.mu.Unlock()
		})
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ch, cancel, nil
}
