package counter

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCounter keeps per-property view counts in Redis until a flush moves
// them into Postgres.
type RedisCounter struct {
	client *redis.Client
	prefix string
}

// Config Redis connection settings
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	Prefix   string
}

func NewRedisCounter(config *Config) *RedisCounter {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})

	prefix := config.Prefix
	if prefix == "" {
		prefix = "rentalhub"
	}

	return &RedisCounter{
		client: client,
		prefix: prefix,
	}
}

func (c *RedisCounter) Close() error {
	return c.client.Close()
}

func (c *RedisCounter) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Incr adds one view and returns the pending (not yet flushed) count.
func (c *RedisCounter) Incr(ctx context.Context, propertyID uint) (int64, error) {
	key := c.viewKey(propertyID)
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("increment view counter: %w", err)
	}
	// stale counters of deleted properties should not live forever
	c.client.Expire(ctx, key, 7*24*time.Hour)
	return n, nil
}

// Pending returns views recorded since the last flush.
func (c *RedisCounter) Pending(ctx context.Context, propertyID uint) (int64, error) {
	n, err := c.client.Get(ctx, c.viewKey(propertyID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read view counter: %w", err)
	}
	return n, nil
}

// Drain atomically takes every pending counter. Keys are removed with GETDEL so
// views recorded while draining land in a fresh key.
func (c *RedisCounter) Drain(ctx context.Context) (map[uint]int64, error) {
	result := make(map[uint]int64)
	pattern := c.prefix + ":views:*"

	iter := c.client.Scan(ctx, 0, pattern, 200).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		id, err := strconv.ParseUint(strings.TrimPrefix(key, c.prefix+":views:"), 10, 64)
		if err != nil {
			continue
		}
		val, err := c.client.GetDel(ctx, key).Int64()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return result, fmt.Errorf("drain %s: %w", key, err)
		}
		result[uint(id)] += val
	}
	if err := iter.Err(); err != nil {
		return result, fmt.Errorf("scan view counters: %w", err)
	}
	return result, nil
}

// Restore adds n views back, used when a drained batch could not be persisted.
func (c *RedisCounter) Restore(ctx context.Context, propertyID uint, n int64) error {
	if n <= 0 {
		return nil
	}
	key := c.viewKey(propertyID)
	if err := c.client.IncrBy(ctx, key, n).Err(); err != nil {
		return fmt.Errorf("restore view counter: %w", err)
	}
	c.client.Expire(ctx, key, 7*24*time.Hour)
	return nil
}

func (c *RedisCounter) viewKey(propertyID uint) string {
	return fmt.Sprintf("%s:views:%d", c.prefix, propertyID)
}
