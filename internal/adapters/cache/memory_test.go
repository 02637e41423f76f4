package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Mode    string  `json:"mode"`
	VideoID *string `json:"videoId"`
}

func TestMemory_GetSet(t *testing.T) {
	c := NewMemory(0)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	id := "abc"
	require.NoError(t, c.Set(ctx, "status", payload{Mode: "live_video", VideoID: &id}, time.Minute))

	var got payload
	ok, err := c.Get(ctx, "status", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "live_video", got.Mode)
	require.NotNil(t, got.VideoID)
	assert.Equal(t, "abc", *got.VideoID)

	ok, err = c.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
}

func TestMemory_Expiration(t *testing.T) {
	c := NewMemory(0)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	now := time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", "v", 30*time.Second))

	var got string
	ok, _ := c.Get(ctx, "k", &got)
	require.True(t, ok)

	now = now.Add(30 * time.Second)
	ok, _ = c.Get(ctx, "k", &got)
	assert.False(t, ok, "entry must expire at its deadline")

	assert.Equal(t, 1, c.deleteExpired())
	assert.Equal(t, 0, c.Stats().Size)
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestMemory_NonPositiveTTLIsNoop(t *testing.T) {
	c := NewMemory(0)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Set(context.Background(), "k", "v", 0))
	assert.Equal(t, 0, c.Stats().Size)
}

func TestMemory_Delete(t *testing.T) {
	c := NewMemory(0)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	var got string
	ok, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_JanitorStops(t *testing.T) {
	c := NewMemory(10 * time.Millisecond)
	require.NoError(t, c.Set(context.Background(), "k", "v", time.Millisecond))

	assert.Eventually(t, func() bool { return c.Stats().Size == 0 }, time.Second, 5*time.Millisecond)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestMemory_DecodeErrorIsReported(t *testing.T) {
	c := NewMemory(0)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "text", time.Minute))
	var n int
	ok, err := c.Get(ctx, "k", &n)
	assert.False(t, ok)
	assert.Error(t, err)
}
