package order

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// KeyReserver guards order placement against duplicate submissions of
// the same idempotency key.
type KeyReserver interface {
	Reserve(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type RedisKeyReserver struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisKeyReserver(rdb *redis.Client) *RedisKeyReserver {
	return &RedisKeyReserver{rdb: rdb, ttl: 24 * time.Hour}
}

func (r *RedisKeyReserver) Reserve(ctx context.Context, key string) (bool, error) {
	return r.rdb.SetNX(ctx, "idempotent-key:"+key, "1", r.ttl).Result()
}

// Release frees the key after a failed placement so the client may
// retry with the same key.
func (r *RedisKeyReserver) Release(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, "idempotent-key:"+key).Err()
}
