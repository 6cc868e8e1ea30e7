package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const webhookKeyPrefix = "stripe:webhook:"

// NoopDeduplicator treats every delivery as the first one.
type NoopDeduplicator struct{}

func (NoopDeduplicator) FirstDelivery(context.Context, string) (bool, error) { return true, nil }
func (NoopDeduplicator) Forget(context.Context, string) error                { return nil }

// RedisDeduplicator remembers webhook event ids for ttl so provider
// redeliveries are acknowledged without being applied twice.
type RedisDeduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDeduplicator(redisURL string, ttl time.Duration) (*RedisDeduplicator, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisDeduplicatorFromClient(redis.NewClient(opts), ttl), nil
}

func NewRedisDeduplicatorFromClient(client *redis.Client, ttl time.Duration) *RedisDeduplicator {
	return &RedisDeduplicator{client: client, ttl: ttl}
}

func (d *RedisDeduplicator) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}

func (d *RedisDeduplicator) FirstDelivery(ctx context.Context, eventID string) (bool, error) {
	ok, err := d.client.SetNX(ctx, webhookKeyPrefix+eventID, time.Now().Unix(), d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record webhook event: %w", err)
	}
	return ok, nil
}

// Forget drops eventID so a redelivery is processed again.
func (d *RedisDeduplicator) Forget(ctx context.Context, eventID string) error {
	return d.client.Del(ctx, webhookKeyPrefix+eventID).Err()
}

func (d *RedisDeduplicator) Close() error {
	return d.client.Close()
}
