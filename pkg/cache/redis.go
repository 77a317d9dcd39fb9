package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a [RedisCache].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key, separating applications that share
	// one server.
	Prefix string
	// Attempts bounds retries of operations that fail on the network.
	// Zero means 3.
	Attempts int
	// RetryDelay is the first backoff delay. Zero means 200ms.
	RetryDelay time.Duration
}

// RedisCache stores entries in Redis. Expiry is left to Redis.
type RedisCache struct {
	client *redis.Client
	cfg    RedisConfig
}

// NewRedisCache connects to Redis and pings the server.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 200 * time.Millisecond
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 2 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return &RedisCache{client: client, cfg: cfg}, nil
}

// Get reads key.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	var hit bool
	err := c.retry(ctx, func() error {
		b, err := c.client.Get(ctx, c.cfg.Prefix+key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			return nil
		case err != nil:
			return classify(err)
		}
		data, hit = b, true
		return nil
	})
	return data, hit, err
}

// Set writes key with the given ttl; zero keeps it forever.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.retry(ctx, func() error {
		return classify(c.client.Set(ctx, c.cfg.Prefix+key, data, ttl).Err())
	})
}

// Delete removes key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.retry(ctx, func() error {
		return classify(c.client.Del(ctx, c.cfg.Prefix+key).Err())
	})
}

// Close closes the client.
func (c *RedisCache) Close() error { return c.client.Close() }

func (c *RedisCache) retry(ctx context.Context, fn func() error) error {
	return RetryWithBackoff(ctx, c.cfg.Attempts, c.cfg.RetryDelay, fn)
}

// classify marks network failures as retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
