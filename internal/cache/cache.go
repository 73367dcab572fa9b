package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache is a thin versioned JSON cache. List endpoints embed a per-user
// version number in their keys; bumping the version on a write invalidates
// every cached page at once without scanning keys. All methods are safe to
// call with a nil Cache or an unreachable redis, the caller just misses.
type Cache struct {
	client *redis.Client
}

func New(address string) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr: address,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Warn().Err(err).Msg("Redis not available. Running without cache.")
		return nil
	}

	log.Info().Str("address", address).Msg("Redis connected")
	return &Cache{client: client}
}

// NewWithClient wraps an existing client (used by tests with miniredis)
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to marshal cache value")
		return
	}

	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to set cache value")
	}
}

// GetVersion returns the current version for a key, 0 when unset
func (c *Cache) GetVersion(ctx context.Context, key string) int64 {
	if c == nil {
		return 0
	}

	v, err := c.client.Get(ctx, key).Int64()
	if err != nil {
		return 0
	}
	return v
}

// IncrementVersion bumps a version key so stale list entries stop matching
func (c *Cache) IncrementVersion(ctx context.Context, key string) {
	if c == nil {
		return
	}

	if err := c.client.Incr(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to increment cache version")
	}
}
