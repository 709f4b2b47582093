package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mobtwin/admin-backend/internal/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/fx"
)

// Cache is the Redis-backed key-value store used for response caching,
// invalidation, and TTL'd verification codes.
type Cache struct {
	client *redis.Client
}

// NewCache connects to Redis and registers a shutdown hook.
func NewCache(lc fx.Lifecycle, cfg *config.Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return &Cache{client: client}, nil
}

// NewWithClient wraps an existing client. Used by tests with miniredis.
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Key builds the "{table}-{suffix}" cache key convention used by cached reads
// and matched by InvalidateTable.
func Key(table, suffix string) string {
	return table + "-" + suffix
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// GetJSON reads and unmarshals a cached document into out.
func (c *Cache) GetJSON(ctx context.Context, key string, out interface{}) (bool, error) {
	val, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		// A corrupt entry is treated as a miss; the caller refills it.
		return false, nil
	}
	return true, nil
}

// SetJSON marshals and stores a document.
func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, string(data), ttl)
}

// InvalidateTable clears every cache entry for one resource category using the
// "{table}-*" prefix scan. Mutating services await this before responding so a
// client never sees a success response while stale entries remain.
func (c *Cache) InvalidateTable(ctx context.Context, table string) error {
	keys, err := c.client.Keys(ctx, table+"-*").Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
