package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("redis: key not found")

// Options configures a Client.
type Options struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces every key, so several deployments can share a database.
	Prefix string
	// TTL is the expiry used by SetDefault.
	TTL time.Duration
}

// Client is the small key/value surface the service needs from Redis. Keys
// passed in are relative to the configured prefix.
type Client struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func New(opts Options) *Client {
	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:         opts.Addr,
			Password:     opts.Password,
			DB:           opts.DB,
			PoolSize:     32,
			MinIdleConns: 4,
		}),
		prefix: opts.Prefix,
		ttl:    opts.TTL,
	}
}

func (c *Client) key(k string) string {
	return c.prefix + k
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Get returns ErrNotFound when key is absent.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Set stores data under key. A ttl of zero keeps it until deleted.
func (c *Client) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *Client) SetDefault(ctx context.Context, key string, data []byte) error {
	return c.Set(ctx, key, data, c.ttl)
}

// Del removes key. Deleting a missing key is not an error.
func (c *Client) Del(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Incr bumps a counter, creating it at 1.
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	n, err := c.rdb.Incr(ctx, c.key(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	return n, nil
}

// Expire reports false when key does not exist.
func (c *Client) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	ok, err := c.rdb.Expire(ctx, c.key(key), expiration).Result()
	if err != nil {
		return false, fmt.Errorf("redis expire %s: %w", key, err)
	}
	return ok, nil
}

func (c *Client) Close() error {
	if err := c.rdb.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}
