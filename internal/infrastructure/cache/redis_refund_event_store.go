package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	app "github.com/shopcore/backend/internal/application/affiliate"
	"github.com/shopcore/backend/internal/infrastructure/config"
)

// RedisRefundEventStore deduplicates refund events across instances. The
// key is set atomically with SETNX, so exactly one handler of a replayed
// event observes it as fresh.
type RedisRefundEventStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRefundEventStore creates a Redis-backed refund event store
func NewRedisRefundEventStore(cfg config.RedisConfig) (*RedisRefundEventStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRefundEventStore{
		client:    client,
		keyPrefix: "affiliate:refund-event:",
	}, nil
}

// NewRedisRefundEventStoreWithClient creates a store with an existing
// Redis client, useful for testing or when sharing a client
func NewRedisRefundEventStoreWithClient(client *redis.Client, keyPrefix string) *RedisRefundEventStore {
	if keyPrefix == "" {
		keyPrefix = "affiliate:refund-event:"
	}
	return &RedisRefundEventStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MarkProcessed marks a refund event as seen with a TTL. Returns true if
// the event was newly marked, false if it had been seen before.
func (s *RedisRefundEventStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	fresh, err := s.client.SetNX(ctx, s.keyPrefix+eventID, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark refund event: %w", err)
	}
	return fresh, nil
}

// Close closes the Redis client
func (s *RedisRefundEventStore) Close() error {
	return s.client.Close()
}

// Ensure RedisRefundEventStore implements the application contract
var _ app.RefundEventStore = (*RedisRefundEventStore)(nil)
