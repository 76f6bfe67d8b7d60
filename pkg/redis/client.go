// Package redis builds the go-redis client used by the live-station cache.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis client configuration.
type Config struct {
	Addr     string
	Password string
	DB       int

	// Connection pool
	PoolSize     int
	MinIdleConns int

	// Timeouts
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration

	// Retry
	MaxRetries int
}

// Client wraps a Redis client.
type Client struct {
	universal redis.UniversalClient
	config    *Config
}

// NewClient creates a Redis client without dialing. The cache treats an
// unreachable server as a miss, so startup does not depend on Redis.
func NewClient(cfg *Config) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
		MaxRetries:   cfg.MaxRetries,
	})

	return &Client{
		universal: rdb,
		config:    cfg,
	}
}

// Universal returns the underlying UniversalClient.
func (c *Client) Universal() redis.UniversalClient {
	return c.universal
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.universal.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis %s: %w", c.config.Addr, err)
	}
	return nil
}

// Close closes the client.
func (c *Client) Close() error {
	return c.universal.Close()
}
