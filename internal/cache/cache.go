package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/trafficguard/trafficguard/internal/config"
)

// Cache is a small read-through cache for record query responses. It is a
// pure accelerator: every method degrades to a no-op or a miss when Redis
// is disabled or unreachable, and callers never see a cache error.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New creates the query cache. When the cache is disabled in configuration
// a nil-client Cache is returned and every operation becomes a no-op.
func New(cfg *config.RedisConfig, logger *zap.Logger) *Cache {
	c := &Cache{
		ttl:    cfg.CacheTTL,
		logger: logger,
	}
	if !cfg.Enabled {
		return c
	}

	c.client = redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.Database,
		DialTimeout: cfg.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := c.client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, query cache disabled", zap.Error(err))
		c.client = nil
	}

	return c
}

// Enabled reports whether the cache has a live Redis connection.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get loads the cached value for key into dest. It returns false on a
// miss, a decode failure, or any Redis error.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if !c.Enabled() {
		return false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Debug("cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores value under key with the configured TTL. Failures are logged
// and swallowed.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	if !c.Enabled() {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Debug("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Close releases the Redis connection if one was established.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
