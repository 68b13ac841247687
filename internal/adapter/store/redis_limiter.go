package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter enforces a per-user daily message quota.
type RedisLimiter struct {
	client *redis.Client
	limit  int // Max messages per day
}

func NewRedisLimiter(client *redis.Client, limit int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
	}
}

func (r *RedisLimiter) quotaKey(userID string) string {
	return "msgs:" + userID + ":" + time.Now().UTC().Format("2006-01-02")
}

func (r *RedisLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	val, err := r.client.Get(ctx, r.quotaKey(userID)).Result()
	if err == redis.Nil {
		return true, nil // No usage yet
	}
	if err != nil {
		return false, err
	}
	usage, _ := strconv.Atoi(val)
	return usage < r.limit, nil
}

func (r *RedisLimiter) Increment(ctx context.Context, userID string) error {
	key := r.quotaKey(userID)
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 48*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}
