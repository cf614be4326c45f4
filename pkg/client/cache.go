package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	rstore "github.com/eko/gocache/store/ristretto/v4"
	"go.uber.org/zap"

	"pathfinder/pkg/types"
)

// DefaultCatalogTTL is how long networks, tokens and protocols are reused
const DefaultCatalogTTL = 5 * time.Minute

// CacheOptions configures a CachedClient
type CacheOptions struct {
	TTL time.Duration
	// Dir holds the on-disk layer. Empty keeps the cache in memory only.
	Dir    string
	Logger *zap.Logger
}

// CachedClient is an EnsoClient that keeps the slowly changing catalogue
// (networks, tokens per chain, protocols) in a ristretto memory layer in
// front of an optional LevelDB layer shared by later runs. Quotes, routes
// and approvals always go to the API.
type CachedClient struct {
	*EnsoClient
	rcache *ristretto.Cache
	disk   *DiskStore
	cache  cache.CacheInterface[[]byte]
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedClient wraps a client with a catalogue cache. A disk layer that
// cannot be opened is logged and skipped.
func NewCachedClient(inner *EnsoClient, opts CacheOptions) (*CachedClient, error) {
	if opts.TTL <= 0 {
		opts.TTL = DefaultCatalogTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rcache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000,
		MaxCost:     64 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	c := &CachedClient{
		EnsoClient: inner,
		rcache:     rcache,
		ttl:        opts.TTL,
		logger:     logger,
	}

	layers := []cache.SetterCacheInterface[[]byte]{
		cache.New[[]byte](rstore.NewRistretto(rcache)),
	}
	if opts.Dir != "" {
		disk, err := OpenDiskStore(opts.Dir)
		if err != nil {
			logger.Warn("catalog disk cache unavailable", zap.String("dir", opts.Dir), zap.Error(err))
		} else {
			c.disk = disk
			layers = append(layers, cache.New[[]byte](disk))
		}
	}
	c.cache = cache.NewChain[[]byte](layers...)

	return c, nil
}

// GetNetworks returns the cached network list, fetching it on a miss
func (c *CachedClient) GetNetworks(ctx context.Context) ([]types.Network, error) {
	return cached(ctx, c, "networks", c.EnsoClient.GetNetworks)
}

// GetTokens returns the cached token list for a chain, fetching it on a miss
func (c *CachedClient) GetTokens(ctx context.Context, chainID uint64) ([]types.Token, error) {
	return cached(ctx, c, fmt.Sprintf("tokens:%d", chainID), func(ctx context.Context) ([]types.Token, error) {
		return c.EnsoClient.GetTokens(ctx, chainID)
	})
}

// GetProtocols returns the cached protocol list, fetching it on a miss
func (c *CachedClient) GetProtocols(ctx context.Context) ([]types.Protocol, error) {
	return cached(ctx, c, "protocols", c.EnsoClient.GetProtocols)
}

// Close releases both layers
func (c *CachedClient) Close() {
	c.rcache.Close()
	if c.disk != nil {
		if err := c.disk.Close(); err != nil {
			c.logger.Debug("closing catalog disk cache", zap.Error(err))
		}
	}
}

func cached[T any](ctx context.Context, c *CachedClient, key string, fetch func(context.Context) (T, error)) (T, error) {
	key = c.baseURL + "|" + key

	if data, err := c.cache.Get(ctx, key); err == nil && len(data) > 0 {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			c.logger.Debug("catalog cache hit", zap.String("key", key))
			return v, nil
		}
	}

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return v, nil
	}

	err = c.cache.Set(ctx, key, data,
		store.WithExpiration(c.ttl),
		store.WithCost(int64(len(data))),
		store.WithSynchronousSet(),
	)
	if err != nil {
		c.logger.Debug("catalog cache set failed", zap.String("key", key), zap.Error(err))
	}

	return v, nil
}
