// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"carecase-workers/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient holds the connection used by the record cache.
type RedisClient struct {
	Client *redis.Client
}

// NewRedis builds a pooled client. Zero pool settings fall back to the
// go-redis defaults.
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is empty")
	}

	opts := &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	}
	return &RedisClient{Client: redis.NewClient(opts)}, nil
}

// Ping verifies the server answers.
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// PoolStats reports the connection pool counters for readiness details.
func (c *RedisClient) PoolStats() *redis.PoolStats {
	return c.Client.PoolStats()
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
