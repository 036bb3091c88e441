package services

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisService wraps the shared Redis client used for wheel cooldowns,
// leaderboard caching and password-reset tokens.
type RedisService struct {
	rdb *redis.Client
}

func NewRedisService(dsn string) (*RedisService, error) {
	opts, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = 10
	opts.MinIdleConns = 5
	opts.ConnMaxIdleTime = 5 * time.Minute

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisService{rdb: rdb}, nil
}

func (rs *RedisService) Close() error {
	return rs.rdb.Close()
}

// Cache helpers
func (rs *RedisService) Get(ctx context.Context, key string) (string, error) {
	v, err := rs.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (rs *RedisService) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	return rs.rdb.Set(ctx, key, value, expiration).Err()
}

func (rs *RedisService) Del(ctx context.Context, keys ...string) error {
	return rs.rdb.Del(ctx, keys...).Err()
}

// StartCooldown arms a TTL key; CooldownRemaining reports what is left.
func (rs *RedisService) StartCooldown(ctx context.Context, key string, d time.Duration) error {
	return rs.rdb.Set(ctx, key, "1", d).Err()
}

func (rs *RedisService) CooldownRemaining(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := rs.rdb.TTL(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil // key absent or without TTL: no cooldown
	}
	return ttl, nil
}
