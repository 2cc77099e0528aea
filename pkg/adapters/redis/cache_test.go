package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synod/pkg/adapters/redis"
	"synod/pkg/ports"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	return mr, backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestRedisCache_Contract(t *testing.T) {
	_, client := newTestClient(t)
	ports.RunReportCacheContract(t, redis.NewFromClient(client))
}

func TestRedisCache_TTLExpiration(t *testing.T) {
	mr, client := newTestClient(t)
	cache := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "NVDA", "technical", "uptrend"))

	report, err := cache.Get(ctx, "NVDA", "technical")
	require.NoError(t, err)
	assert.Equal(t, "uptrend", report)

	// miniredis advances TTLs manually.
	mr.FastForward(2 * time.Second)

	_, err = cache.Get(ctx, "NVDA", "technical")
	assert.ErrorIs(t, err, ports.ErrReportNotFound)
}

func TestRedisCache_PrefixIsolation(t *testing.T) {
	_, client := newTestClient(t)
	a := redis.NewFromClient(client, redis.WithPrefix("a:"))
	b := redis.NewFromClient(client, redis.WithPrefix("b:"))
	ctx := context.Background()

	require.NoError(t, a.Put(ctx, "NVDA", "news", "from a"))

	_, err := b.Get(ctx, "NVDA", "news")
	assert.ErrorIs(t, err, ports.ErrReportNotFound)
}
