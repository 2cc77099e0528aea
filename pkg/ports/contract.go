package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunReportCacheContract runs a suite of tests to verify that a
// ReportCache implementation adheres to the interface contract.
func RunReportCacheContract(t *testing.T, cache ReportCache) {
	ctx := context.Background()
	instrument := "contract-" + time.Now().Format("20060102150405")

	t.Run("Put and Get", func(t *testing.T) {
		err := cache.Put(ctx, instrument, "technical", "RSI at 70, MACD bullish crossover")
		require.NoError(t, err, "Put should not return error")

		report, err := cache.Get(ctx, instrument, "technical")
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, "RSI at 70, MACD bullish crossover", report)
	})

	t.Run("Get Miss", func(t *testing.T) {
		_, err := cache.Get(ctx, instrument, "no-such-role")
		assert.ErrorIs(t, err, ErrReportNotFound)
	})

	t.Run("Roles Are Independent", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, instrument, "news", "partnership announced"))
		require.NoError(t, cache.Put(ctx, instrument, "sentiment", "75% bullish posts"))

		news, err := cache.Get(ctx, instrument, "news")
		require.NoError(t, err)
		assert.Equal(t, "partnership announced", news)

		sentiment, err := cache.Get(ctx, instrument, "sentiment")
		require.NoError(t, err)
		assert.Equal(t, "75% bullish posts", sentiment)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, instrument, "fundamentals", "stale"))
		require.NoError(t, cache.Put(ctx, instrument, "fundamentals", "fresh"))

		report, err := cache.Get(ctx, instrument, "fundamentals")
		require.NoError(t, err)
		assert.Equal(t, "fresh", report)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, instrument, "doomed", "x"))
		require.NoError(t, cache.Delete(ctx, instrument, "doomed"))

		_, err := cache.Get(ctx, instrument, "doomed")
		assert.ErrorIs(t, err, ErrReportNotFound, "Get after Delete should miss")

		assert.NoError(t, cache.Delete(ctx, instrument, "doomed"), "deleting a missing entry is not an error")
	})
}
