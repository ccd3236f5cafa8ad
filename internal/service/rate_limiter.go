package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sajango/account-service/pkg/database"
)

// RateLimitError reports a rejected request and how long until the window
// has room again.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, try again in %v", e.RetryAfter.Round(time.Second))
}

// RateLimiter throttles requests with a sliding window log kept in Redis
// sorted sets, one set per key.
type RateLimiter struct {
	redis *database.Redis
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redis *database.Redis) *RateLimiter {
	return &RateLimiter{redis: redis}
}

func rateLimitKey(key string) string {
	return fmt.Sprintf("ratelimit:%s", key)
}

// Allow records the request against the key's window. It returns a
// *RateLimitError when the window is full, nil when the request may
// proceed.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) error {
	now := time.Now()
	windowStart := now.Add(-window)
	redisKey := rateLimitKey(key)

	err := r.redis.Client.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.Unix())).Err()
	if err != nil {
		return fmt.Errorf("failed to clean old entries: %w", err)
	}

	count, err := r.redis.Client.ZCard(ctx, redisKey).Result()
	if err != nil {
		return fmt.Errorf("failed to count entries: %w", err)
	}

	if count >= int64(limit) {
		retryAfter := window
		if oldest, err := r.redis.Client.ZRangeWithScores(ctx, redisKey, 0, 0).Result(); err == nil && len(oldest) > 0 {
			oldestTime := time.Unix(int64(oldest[0].Score), 0)
			retryAfter = window - time.Since(oldestTime)
		}
		return &RateLimitError{RetryAfter: retryAfter}
	}

	member := fmt.Sprintf("%d", now.UnixNano())
	err = r.redis.Client.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.Unix()),
		Member: member,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to add entry: %w", err)
	}

	// Keys expire a bit after the window so abandoned keys do not pile up.
	_ = r.redis.Client.Expire(ctx, redisKey, window+time.Minute).Err()

	return nil
}

// Remaining returns how many requests the key has left in the current
// window.
func (r *RateLimiter) Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	now := time.Now()
	windowStart := now.Add(-window)
	redisKey := rateLimitKey(key)

	err := r.redis.Client.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.Unix())).Err()
	if err != nil {
		return 0, fmt.Errorf("failed to clean old entries: %w", err)
	}

	count, err := r.redis.Client.ZCard(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return remaining, nil
}
