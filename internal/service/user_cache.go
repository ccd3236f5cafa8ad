package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sajango/account-service/internal/dto"
	"github.com/sajango/account-service/pkg/database"
)

// UserCache keeps user profiles in Redis so the read path skips the store.
// Entries expire after the configured TTL and are dropped eagerly on update.
type UserCache struct {
	redis *database.Redis
	ttl   time.Duration
}

// NewUserCache creates a new user profile cache
func NewUserCache(redis *database.Redis, ttl time.Duration) *UserCache {
	return &UserCache{redis: redis, ttl: ttl}
}

func (c *UserCache) key(id string) string {
	return fmt.Sprintf("cache:user:%s", id)
}

// Get returns the cached profile, or nil on a miss or cache failure.
func (c *UserCache) Get(ctx context.Context, id string) *dto.UserResponse {
	data, err := c.redis.Client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		return nil
	}

	var user dto.UserResponse
	if err := json.Unmarshal(data, &user); err != nil {
		return nil
	}

	return &user
}

// Set stores the profile with the configured TTL.
func (c *UserCache) Set(ctx context.Context, user *dto.UserResponse) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user for cache: %w", err)
	}

	if err := c.redis.Client.Set(ctx, c.key(user.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache user: %w", err)
	}

	return nil
}

// Invalidate drops the cached profile.
func (c *UserCache) Invalidate(ctx context.Context, id string) error {
	if err := c.redis.Client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached user: %w", err)
	}
	return nil
}
