package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/accountd/account-service/internal/core/domain"
)

const cacheTTL = 5 * time.Minute

// UserCache is a read-through profile cache backed by Redis.
// Key format: user:<id>
//
// Cached entries never contain a password hash: the account service clears
// it before the value reaches Set, and User marshals the field as "-".
type UserCache struct {
	client *redis.Client
}

// NewUserCache creates a UserCache wrapping the given Redis client.
func NewUserCache(client *redis.Client) *UserCache {
	return &UserCache{client: client}
}

// Get returns the cached user, or (nil, nil) on a miss.
func (c *UserCache) Get(ctx context.Context, id string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &user, nil
}

// Set stores the user for cacheTTL.
func (c *UserCache) Set(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(user.ID), raw, cacheTTL).Err()
}

func (c *UserCache) key(id string) string {
	return "user:" + id
}
