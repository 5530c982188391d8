package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix is prepended to paths to form Redis keys.
const DefaultRedisPrefix = "qmc:markdown:"

// Redis stores documents as Redis string values.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis returns a store using client. A zero ttl keeps documents forever.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

// NewRedisFromURL connects to the server described by a redis:// URL.
func NewRedisFromURL(rawURL, prefix string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedis(redis.NewClient(opt), prefix, ttl), nil
}

// Save implements Store.
func (r *Redis) Save(ctx context.Context, p, markdown string) error {
	if err := ValidatePath(p); err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.prefix+p, markdown, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", p, err)
	}
	return nil
}

// Load implements Store.
func (r *Redis) Load(ctx context.Context, p string) (string, error) {
	if err := ValidatePath(p); err != nil {
		return "", err
	}
	val, err := r.client.Get(ctx, r.prefix+p).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", p, err)
	}
	return val, nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
