package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config describes how to reach the Redis instance that carries domain events.
type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

type Client struct {
	*redis.Client
}

// NewClient connects and pings Redis, failing fast when it is unreachable.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	poolSize := cfg.PoolSize
	if poolSize == 0 {
		poolSize = 10
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     poolSize,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &Client{Client: rdb}, nil
}

func (c *Client) Close() error {
	return c.Client.Close()
}
