package middleware_test

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synod/pkg/adapters/memory"
	"synod/pkg/persistence/middleware"
	"synod/pkg/ports"
)

func testKey(b byte) []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = b
	}
	return key
}

func TestEncryption_Contract(t *testing.T) {
	cache := middleware.Chain(memory.New(),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: testKey(1)}))
	ports.RunReportCacheContract(t, cache)
}

func TestEncryption_StoredValueIsOpaque(t *testing.T) {
	backing := memory.New()
	cache := middleware.Chain(backing,
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: testKey(1)}))
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "NVDA", "technical", "uptrend intact"))

	stored, err := backing.Get(ctx, "NVDA", "technical")
	require.NoError(t, err)
	assert.NotContains(t, stored, "uptrend")

	raw, err := base64.StdEncoding.DecodeString(stored)
	require.NoError(t, err, "stored value must be base64 ciphertext")
	assert.NotEmpty(t, raw)

	report, err := cache.Get(ctx, "NVDA", "technical")
	require.NoError(t, err)
	assert.Equal(t, "uptrend intact", report)
}

func TestEncryption_KeyRotation(t *testing.T) {
	backing := memory.New()
	ctx := context.Background()

	oldCache := middleware.Chain(backing,
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: testKey(1)}))
	require.NoError(t, oldCache.Put(ctx, "NVDA", "news", "partnership announced"))

	// New active key, old key demoted to fallback.
	rotated := middleware.Chain(backing,
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    testKey(2),
			FallbackKeys: [][]byte{testKey(1)},
		}))

	report, err := rotated.Get(ctx, "NVDA", "news")
	require.NoError(t, err)
	assert.Equal(t, "partnership announced", report)
}

func TestEncryption_WrongKeyFails(t *testing.T) {
	backing := memory.New()
	ctx := context.Background()

	writer := middleware.Chain(backing,
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: testKey(1)}))
	require.NoError(t, writer.Put(ctx, "NVDA", "news", "secret"))

	reader := middleware.Chain(backing,
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: testKey(9)}))

	_, err := reader.Get(ctx, "NVDA", "news")
	assert.ErrorContains(t, err, "decrypt")
}

func TestEncryption_ShortKeyPanics(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	})
}

func TestRedaction_MasksPatterns(t *testing.T) {
	backing := memory.New()
	cache := middleware.Chain(backing,
		middleware.NewRedactionMiddleware([]string{`acct-\d+`, `sk-[a-z0-9]+`}))
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "NVDA", "news",
		"flow from acct-99231 routed with key sk-abc123"))

	report, err := cache.Get(ctx, "NVDA", "news")
	require.NoError(t, err)
	assert.Equal(t, "flow from *** routed with key ***", report)
}

func TestChain_OrderIsOutermostFirst(t *testing.T) {
	backing := memory.New()
	// Redaction must run before encryption so the masked text is what
	// gets encrypted.
	cache := middleware.Chain(backing,
		middleware.NewRedactionMiddleware([]string{`acct-\d+`}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: testKey(1)}),
	)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "NVDA", "news", "from acct-1"))

	report, err := cache.Get(ctx, "NVDA", "news")
	require.NoError(t, err)
	assert.Equal(t, "from ***", report)
}
