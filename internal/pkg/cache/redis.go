package cache

import (
	"context"
	"time"

	"github.com/sekolah-web/core/internal/pkg/redis"
)

// Redis is a Cache shared by every process using the same Redis database.
// All keys are stored under prefix, which InvalidateAll clears.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return r.client.Lookup(ctx, r.prefix+key)
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, value, ttl)
}

func (r *Redis) Invalidate(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.prefix + k
	}
	return r.client.Del(ctx, full...)
}

func (r *Redis) InvalidateAll(ctx context.Context) error {
	_, err := r.client.DelPrefix(ctx, r.prefix)
	return err
}
