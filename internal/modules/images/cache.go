package images

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type redisCache struct {
	rdb goredis.UniversalClient
}

// NewRedisCache returns nil for a nil client so callers can pass it through.
func NewRedisCache(rdb goredis.UniversalClient) Cache {
	if rdb == nil {
		return nil
	}
	return &redisCache{rdb: rdb}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}
