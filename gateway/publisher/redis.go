package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/yaron8/microlink/telemetrics"
)

// RedisPublisher publishes snapshots to a Redis Pub/Sub channel
type RedisPublisher struct {
	redisClient *redis.Client
	channel     string
}

// NewRedisPublisher creates a publisher with the provided Redis client
func NewRedisPublisher(redisClient *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{
		redisClient: redisClient,
		channel:     channel,
	}
}

// Publish sends the snapshot as a JSON Event on the configured channel
func (p *RedisPublisher) Publish(ctx context.Context, origin Origin, metrics telemetrics.LinkMetrics) error {
	data, err := json.Marshal(Event{Origin: origin, Metrics: metrics})
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err := p.redisClient.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.channel, err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.redisClient.Close()
}
