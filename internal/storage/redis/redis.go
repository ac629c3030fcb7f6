package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

type RedisRepo struct {
	client *redis.Client
}

func New(ctx context.Context, address string, password string, db int) (*RedisRepo, error) {
	const op = "storage.redis.New"

	rdb := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RedisRepo{client: rdb}, nil
}

// Hit counts one request for key in the current window and returns the
// running total. The counter expires together with the window.
func (r *RedisRepo) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	const op = "storage.redis.Hit"

	redisKey := keyPrefix + key

	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if count == 1 {
		if err := r.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	return count, nil
}

// Close закрывает соединение с Redis.
func (r *RedisRepo) Close() {
	r.client.Close()
}
