package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuard(t *testing.T) (*WebhookGuard, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewWebhookGuard(client), mr
}

func TestWebhookGuard_AcquireRelease(t *testing.T) {
	g, _ := newGuard(t)
	ctx := context.Background()

	ok, err := g.Acquire(ctx, "shopee", "SP-1", "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Acquire(ctx, "shopee", "SP-1", "b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// 别的持有者无法释放
	require.NoError(t, g.Release(ctx, "shopee", "SP-1", "b"))
	ok, _ = g.Acquire(ctx, "shopee", "SP-1", "b", time.Minute)
	assert.False(t, ok)

	require.NoError(t, g.Release(ctx, "shopee", "SP-1", "a"))
	ok, err = g.Acquire(ctx, "shopee", "SP-1", "b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWebhookGuard_Expires(t *testing.T) {
	g, mr := newGuard(t)
	ctx := context.Background()

	ok, _ := g.Acquire(ctx, "tokopedia", "TP-9", "a", 30*time.Second)
	require.True(t, ok)

	mr.FastForward(31 * time.Second)
	ok, err := g.Acquire(ctx, "tokopedia", "TP-9", "b", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	// 不同外部单号互不影响
	ok, _ = g.Acquire(ctx, "tokopedia", "TP-10", "a", 30*time.Second)
	assert.True(t, ok)
}
