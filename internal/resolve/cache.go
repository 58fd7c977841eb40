package resolve

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultCacheTTL = 10 * time.Minute

// Cache keeps resolved URLs in redis. Redis failures fall through to the
// wrapped resolver.
type Cache struct {
	next   Resolver
	rdb    redis.UniversalClient
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// NewCache wraps next. ttl should stay below the lifetime of the URLs
// next returns.
func NewCache(next Resolver, rdb redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{next: next, rdb: rdb, ttl: ttl, prefix: "wavestream:stream:", logger: logger.Named("resolve")}
}

func (c *Cache) Resolve(ctx context.Context, id string) (string, error) {
	key := c.prefix + id
	u, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("stream cache read", zap.String("track", id), zap.Error(err))
	}

	u, err = c.next.Resolve(ctx, id)
	if err != nil {
		return "", err
	}
	if err := c.rdb.Set(ctx, key, u, c.ttl).Err(); err != nil {
		c.logger.Warn("stream cache write", zap.String("track", id), zap.Error(err))
	}
	return u, nil
}

// Invalidate drops the cached URL for id.
func (c *Cache) Invalidate(ctx context.Context, id string) error {
	return c.rdb.Del(ctx, c.prefix+id).Err()
}
