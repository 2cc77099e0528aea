// Package redis provides a Redis-backed ReportCache so analyst reports
// survive process restarts and are shared between runners.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"synod/pkg/ports"
)

// Cache implements ports.ReportCache using Redis.
type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the cache.
type Option func(*Cache)

// WithTTL sets the expiration for cached reports. Zero means no
// expiration.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix for cached reports.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// New creates a Redis cache with its own client.
func New(address, password string, db int, opts ...Option) *Cache {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	cache := &Cache{
		client: client,
		prefix: "synod:report:",
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

func (c *Cache) key(instrument, role string) string {
	return fmt.Sprintf("%s%s:%s", c.prefix, instrument, role)
}

// Get retrieves a cached report.
func (c *Cache) Get(ctx context.Context, instrument, role string) (string, error) {
	report, err := c.client.Get(ctx, c.key(instrument, role)).Result()
	if errors.Is(err, backend.Nil) {
		return "", ports.ErrReportNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return report, nil
}

// Put stores a report, applying the configured TTL.
func (c *Cache) Put(ctx context.Context, instrument, role, report string) error {
	if err := c.client.Set(ctx, c.key(instrument, role), report, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a cached report.
func (c *Cache) Delete(ctx context.Context, instrument, role string) error {
	if err := c.client.Del(ctx, c.key(instrument, role)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
