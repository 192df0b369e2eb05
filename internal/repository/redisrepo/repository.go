package redisrepo

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Default is the key-value surface the services use: SetJSON/Get carry the
// cached user views, Set stores the single-use reset-token markers, and Del
// both invalidates cache entries and burns tokens. Del's IntCmd result is how
// a caller distinguishes burning a live token from replaying a spent one.
type Default interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type RedisRepository struct {
	Default
}

func New(rdb *redis.Client) *RedisRepository {
	return &RedisRepository{
		Default: newDefaultRepo(rdb),
	}
}
