package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const feedCacheKeyPrefix = "feed:"

// FeedCache keeps a short-lived per-viewer copy of the grouped feed in
// Redis. It is purely a read accelerator: a miss or a Redis failure always
// falls through to the store.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewFeedCache returns a cache over the given Redis client. A nil client
// disables caching entirely.
func NewFeedCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *FeedCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached feed for the viewer, if present and decodable.
func (c *FeedCache) Get(ctx context.Context, viewerID string) ([]AuthorFeed, bool) {
	data, err := c.client.Get(ctx, feedCacheKeyPrefix+viewerID).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("feed cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var feed []AuthorFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		c.logger.Warn("feed cache entry corrupt", zap.String("viewer_id", viewerID), zap.Error(err))
		return nil, false
	}
	return feed, true
}

// Set stores the viewer's feed with the cache TTL.
func (c *FeedCache) Set(ctx context.Context, viewerID string, feed []AuthorFeed) {
	data, err := json.Marshal(feed)
	if err != nil {
		c.logger.Warn("feed cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, feedCacheKeyPrefix+viewerID, data, c.ttl).Err(); err != nil {
		c.logger.Warn("feed cache write failed", zap.Error(err))
	}
}

// Invalidate drops the viewer's cached feed. Called after the viewer records
// a view, so their unseen flags refresh immediately.
func (c *FeedCache) Invalidate(ctx context.Context, viewerID string) {
	if err := c.client.Del(ctx, feedCacheKeyPrefix+viewerID).Err(); err != nil {
		c.logger.Warn("feed cache invalidate failed", zap.Error(err))
	}
}
