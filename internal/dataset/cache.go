package dataset

import (
	"context"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"attackmap/internal/logger"
)

// CacheConfig configures the Redis bundle cache.
type CacheConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
	TTL      time.Duration
}

// Cache wraps a Source with a Redis-backed byte cache so repeated runs do
// not refetch the full bundle. Cache errors are never fatal: a broken cache
// degrades to a direct fetch.
type Cache struct {
	inner  Source
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewCache creates a bundle cache in front of the inner source.
func NewCache(inner Source, cfg CacheConfig) (*Cache, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = "127.0.0.1:6379"
	}
	if strings.TrimSpace(cfg.Key) == "" {
		cfg.Key = "attackmap:bundle:enterprise"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Cache{inner: inner, client: client, key: cfg.Key, ttl: cfg.TTL}, nil
}

// Fetch returns cached bundle bytes when present, otherwise fetches from the
// inner source and stores the result with the configured TTL.
func (c *Cache) Fetch(ctx context.Context) ([]byte, error) {
	cached, err := c.client.Get(ctx, c.key).Bytes()
	if err == nil && len(cached) > 0 {
		logger.Infof("Bundle cache hit: %s (%d bytes)", c.key, len(cached))
		return cached, nil
	}
	if err != nil && err != redis.Nil {
		logger.Warnf("Bundle cache read failed, falling back to direct fetch: %v", err)
	}

	raw, err := c.inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.client.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		logger.Warnf("Bundle cache write failed: %v", err)
	}
	return raw, nil
}

// Close releases the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
