package audiocache

import (
	"context"
	"time"

	"github.com/go-redis/redis"
	"github.com/google/uuid"

	"github.com/xpanvictor/emovox/pkg/utils"
)

// Cache holds raw uploads for the duration of a pipeline run.
type Cache interface {
	Put(ctx context.Context, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

func NewKey() string {
	return "audio:" + uuid.NewString()
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Put(ctx context.Context, data []byte) (string, error) {
	key := NewKey()
	if err := c.client.WithContext(ctx).Set(key, data, c.ttl).Err(); err != nil {
		return "", utils.XError{Reason: "caching upload " + key, Meta: err}.ToError()
	}
	return key, nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.WithContext(ctx).Del(key).Err(); err != nil {
		return utils.XError{Reason: "evicting upload " + key, Meta: err}.ToError()
	}
	return nil
}

// Noop is used when Redis is disabled.
type Noop struct{}

func (Noop) Put(context.Context, []byte) (string, error) { return "", nil }
func (Noop) Delete(context.Context, string) error        { return nil }
