// Package cache wraps redis for small read-side caches. A nil client
// disables caching: every operation degrades to a miss or a no-op instead
// of an error, so the store stays the source of truth.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ruddypp/Paramata-System/internal/logger"
)

const unreadCountTTL = 5 * time.Minute

type Cache struct {
	client *redis.Client
}

// New connects to redis. An empty addr returns a disabled cache.
func New(ctx context.Context, addr, password string, db int) *Cache {
	if addr == "" {
		logger.Info("Redis not configured, cache disabled")
		return &Cache{}
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, cache disabled", "addr", addr, "error", err)
		return &Cache{}
	}
	logger.Info("Redis cache connected", "addr", addr)
	return &Cache{client: client}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func unreadCountKey(userID string) string {
	return fmt.Sprintf("notifications:unread:%s", userID)
}

// GetUnreadCount returns (count, true) on a hit.
func (c *Cache) GetUnreadCount(ctx context.Context, userID string) (int32, bool) {
	if !c.Enabled() {
		return 0, false
	}
	val, err := c.client.Get(ctx, unreadCountKey(userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Debug("Cache read failed", "key", unreadCountKey(userID), "error", err)
		}
		return 0, false
	}
	count, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(count), true
}

func (c *Cache) SetUnreadCount(ctx context.Context, userID string, count int32) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Set(ctx, unreadCountKey(userID), int64(count), unreadCountTTL).Err(); err != nil {
		logger.Debug("Cache write failed", "key", unreadCountKey(userID), "error", err)
	}
}

// InvalidateUnreadCount drops the cached count after any notification
// mutation for the user.
func (c *Cache) InvalidateUnreadCount(ctx context.Context, userID string) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Del(ctx, unreadCountKey(userID)).Err(); err != nil {
		logger.Debug("Cache invalidation failed", "key", unreadCountKey(userID), "error", err)
	}
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
