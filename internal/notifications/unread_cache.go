package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// unreadCountTTL caps staleness if an invalidation is ever lost.
const unreadCountTTL = 5 * time.Minute

// UnreadCache keeps per-user unread counts in Redis so the badge-count poll
// stays off Postgres. Every write path deletes the key; reads repopulate it.
// All methods are nil-receiver safe and degrade to a miss on Redis errors.
type UnreadCache struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewUnreadCache creates a new UnreadCache
func NewUnreadCache(rdb *redis.Client, logger *zap.Logger) *UnreadCache {
	return &UnreadCache{rdb: rdb, logger: logger}
}

func unreadKey(userID uint) string {
	return fmt.Sprintf("notif:unread:%d", userID)
}

// Get returns the cached count and whether it was present.
func (c *UnreadCache) Get(ctx context.Context, userID uint) (int64, bool) {
	if c == nil || c.rdb == nil {
		return 0, false
	}
	count, err := c.rdb.Get(ctx, unreadKey(userID)).Int64()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("unread cache get failed", zap.Uint("user_id", userID), zap.Error(err))
		}
		return 0, false
	}
	return count, true
}

// Set stores the count with a TTL.
func (c *UnreadCache) Set(ctx context.Context, userID uint, count int64) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, unreadKey(userID), count, unreadCountTTL).Err(); err != nil {
		c.logger.Debug("unread cache set failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}

// Invalidate drops the cached count after any write touching the user's
// notifications.
func (c *UnreadCache) Invalidate(ctx context.Context, userID uint) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, unreadKey(userID)).Err(); err != nil {
		c.logger.Debug("unread cache invalidate failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}
