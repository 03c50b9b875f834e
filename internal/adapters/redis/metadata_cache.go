// Package redis implements the board metadata cache on Redis.
package redis

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/example/taskboard/internal/ports/secondary"
)

// MetadataCache stores BoardMetadata as sonic-encoded JSON with a TTL.
// Redis failures degrade to cache misses.
type MetadataCache struct {
	client *goredis.Client
	ttl    time.Duration
	logger *log.Logger
}

// NewMetadataCache creates a cache on the given client. A non-positive TTL
// disables writes, leaving only reads and invalidation.
func NewMetadataCache(client *goredis.Client, ttl time.Duration, logger *log.Logger) *MetadataCache {
	if ttl < 0 {
		ttl = 0
	}
	return &MetadataCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached metadata for a board.
func (c *MetadataCache) Get(ctx context.Context, boardID string) (*secondary.BoardMetadata, bool) {
	if c.client == nil {
		return nil, false
	}
	key := metadataKey(boardID)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.logger.WithError(err).WithField("key", key).Warn("metadata cache read failed")
			_ = c.client.Del(ctx, key).Err()
		}
		return nil, false
	}

	var meta secondary.BoardMetadata
	if err := sonic.Unmarshal(data, &meta); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("dropping undecodable metadata cache entry")
		_ = c.client.Del(ctx, key).Err()
		return nil, false
	}
	return &meta, true
}

// Set stores metadata for a board.
func (c *MetadataCache) Set(ctx context.Context, boardID string, meta *secondary.BoardMetadata) {
	if c.client == nil || c.ttl == 0 || meta == nil {
		return
	}
	data, err := sonic.Marshal(meta)
	if err != nil {
		c.logger.WithError(err).WithField("board_id", boardID).Warn("failed to encode board metadata")
		return
	}
	if err := c.client.Set(ctx, metadataKey(boardID), data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("board_id", boardID).Warn("metadata cache write failed")
	}
}

// Invalidate drops the cached metadata of a board.
func (c *MetadataCache) Invalidate(ctx context.Context, boardID string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, metadataKey(boardID)).Err(); err != nil {
		c.logger.WithError(err).WithField("board_id", boardID).Warn("metadata cache invalidation failed")
		return
	}
	c.logger.WithField("board_id", boardID).Debug("board metadata invalidated")
}

// NoopCache never stores anything. It is used when no Redis URL is configured.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*secondary.BoardMetadata, bool) { return nil, false }

func (NoopCache) Set(context.Context, string, *secondary.BoardMetadata) {}

func (NoopCache) Invalidate(context.Context, string) {}

// NewClient parses a redis:// URL into a client.
func NewClient(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func metadataKey(boardID string) string {
	return "board:metadata:" + boardID
}

var (
	_ secondary.BoardMetadataCache = (*MetadataCache)(nil)
	_ secondary.BoardMetadataCache = NoopCache{}
)
