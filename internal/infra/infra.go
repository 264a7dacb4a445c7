// Package infra opens the optional backing services of the node.
package infra

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Clients holds the connections the node was configured with. Either may be nil.
type Clients struct {
	DB    *pgxpool.Pool
	Cache *redis.Client
}

// Open connects to every service whose URL is non-empty.
func Open(ctx context.Context, databaseURL, redisURL string) (*Clients, error) {
	c := &Clients{}
	if databaseURL != "" {
		db, err := NewPostgresPool(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		c.DB = db
	}
	if redisURL != "" {
		cache, err := NewRedisClient(ctx, redisURL)
		if err != nil {
			c.Close(nil)
			return nil, err
		}
		c.Cache = cache
	}
	return c, nil
}

// Close releases every open connection.
func (c *Clients) Close(logger *slog.Logger) {
	if c.DB != nil {
		c.DB.Close()
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil && logger != nil {
			logger.Warn("close redis", "error", err)
		}
	}
}

// NewPostgresPool configures a PostgreSQL connection pool and verifies connectivity.
func NewPostgresPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// NewRedisClient configures a Redis client and verifies connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
