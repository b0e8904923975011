package source

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedSource_ServesListingsFromCache(t *testing.T) {
	inner := newFakeSource()
	inner.addDoc("folder-1", "doc-1", "a.txt")

	cached, err := NewCachedSource(inner)
	require.NoError(t, err)
	defer cached.Close()

	ctx := context.Background()
	first, err := cached.ListFolder(ctx, "folder-1")
	require.NoError(t, err)
	require.Len(t, first, 1)
	cached.Wait()

	second, err := cached.ListFolder(ctx, "folder-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), inner.listCalls.Load(), "second listing must hit the cache")
}

func TestCachedSource_TTLExpiry(t *testing.T) {
	inner := newFakeSource()
	inner.addDoc("folder-1", "doc-1", "a.txt")

	cached, err := NewCachedSource(inner, WithListingTTL(10*time.Millisecond))
	require.NoError(t, err)
	defer cached.Close()

	ctx := context.Background()
	_, err = cached.ListFolder(ctx, "folder-1")
	require.NoError(t, err)
	cached.Wait()

	time.Sleep(30 * time.Millisecond)

	_, err = cached.ListFolder(ctx, "folder-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), inner.listCalls.Load(), "expired entry must refresh")
}

func TestCachedSource_Invalidate(t *testing.T) {
	inner := newFakeSource()
	inner.addDoc("folder-1", "doc-1", "a.txt")

	cached, err := NewCachedSource(inner)
	require.NoError(t, err)
	defer cached.Close()

	ctx := context.Background()
	_, err = cached.ListFolder(ctx, "folder-1")
	require.NoError(t, err)
	cached.Wait()

	cached.Invalidate("folder-1")

	_, err = cached.ListFolder(ctx, "folder-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), inner.listCalls.Load())
}

func TestCachedSource_FetchPassesThrough(t *testing.T) {
	inner := newFakeSource()
	inner.addDoc("folder-1", "doc-1", "a.txt")

	cached, err := NewCachedSource(inner)
	require.NoError(t, err)
	defer cached.Close()

	data, mime, err := cached.Fetch(context.Background(), "doc-1", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mime)
	assert.Contains(t, string(data), "a.txt")
}
