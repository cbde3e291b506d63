package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the well-known slot key, mirroring the browser
// client's localStorage entry.
const DefaultRedisKey = "cdep_auth"

// RedisBackend stores the session slot under a single Redis key. Intended
// for gateway deployments where the session must survive process restarts
// on hosts without durable local disk.
type RedisBackend struct {
	redis redis.UniversalClient
	key   string
}

// NewRedisBackend creates a [RedisBackend] on the given client. An empty key
// falls back to [DefaultRedisKey].
func NewRedisBackend(client redis.UniversalClient, key string) *RedisBackend {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisBackend{redis: client, key: key}
}

// Load describes the load operation and its observable behavior.
func (r *RedisBackend) Load(ctx context.Context) ([]byte, error) {
	data, err := r.redis.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return data, nil
}

// Save describes the save operation and its observable behavior.
func (r *RedisBackend) Save(ctx context.Context, data []byte) error {
	if err := r.redis.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Clear describes the clear operation and its observable behavior.
func (r *RedisBackend) Clear(ctx context.Context) error {
	if err := r.redis.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
