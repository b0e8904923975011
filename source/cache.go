package source

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/codemet/dora/core"
)

const (
	defaultListingTTL     = 5 * time.Minute
	listingCacheCounters  = 10_000
	listingCacheMaxCost   = 100_000
	listingCacheBufferLen = 64
)

// CachedSource decorates a DocumentSource with a bounded, TTL-limited
// cache over folder listings. Fetches always pass through; only the
// repeated folder scans of bulk ingestion benefit from caching, and
// stale content is worse than a slow listing.
type CachedSource struct {
	inner  DocumentSource
	cache  *ristretto.Cache[string, []core.DocumentInfo]
	ttl    time.Duration
	logger *slog.Logger
}

// CacheOption is a functional option for configuring a CachedSource.
type CacheOption func(*CachedSource)

// WithListingTTL overrides how long folder listings stay cached.
func WithListingTTL(ttl time.Duration) CacheOption {
	return func(c *CachedSource) {
		c.ttl = ttl
	}
}

// NewCachedSource wraps inner with a listing cache.
func NewCachedSource(inner DocumentSource, opts ...CacheOption) (*CachedSource, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, []core.DocumentInfo]{
		NumCounters: listingCacheCounters,
		MaxCost:     listingCacheMaxCost,
		BufferItems: listingCacheBufferLen,
	})
	if err != nil {
		return nil, err
	}

	c := &CachedSource{
		inner:  inner,
		cache:  cache,
		ttl:    defaultListingTTL,
		logger: slog.Default().With("component", "source-cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListFolder serves from cache when possible.
func (c *CachedSource) ListFolder(ctx context.Context, folderID string) ([]core.DocumentInfo, error) {
	if infos, ok := c.cache.Get(folderID); ok {
		c.logger.Debug("listing cache hit", "folder", folderID)
		return infos, nil
	}

	infos, err := c.inner.ListFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}

	// Cost tracks entry size so one huge folder can't pin the cache.
	c.cache.SetWithTTL(folderID, infos, int64(len(infos))+1, c.ttl)
	return infos, nil
}

// Fetch passes straight through to the inner source.
func (c *CachedSource) Fetch(ctx context.Context, documentID, mimeType string) ([]byte, string, error) {
	return c.inner.Fetch(ctx, documentID, mimeType)
}

// Invalidate drops one folder's cached listing.
func (c *CachedSource) Invalidate(folderID string) {
	c.cache.Del(folderID)
}

// Close releases the cache's internal goroutines.
func (c *CachedSource) Close() {
	c.cache.Close()
}

// Wait blocks until pending cache writes are visible. Test helper.
func (c *CachedSource) Wait() {
	c.cache.Wait()
}
