// Package cache stores rendered artifacts and parsed datasets between runs.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for servers
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys come from a [Keyer] so that every backend sees the same layout:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(datasetHash, cache.ArtifactKeyOpts{View: "scatter", Format: "svg"})
//	data, hit, err := c.Get(ctx, key)
//
// [Instrument] wraps a backend so that hits, misses and writes reach the
// observability cache hooks.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/brushlink/pkg/observability"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Fetch returns the cached value for key, or calls fill and stores its
// result. hit reports whether the value came from the cache. A failing
// store is not an error: the filled value is still returned.
func Fetch(ctx context.Context, c Cache, key string, ttl time.Duration, fill func(context.Context) ([]byte, error)) (data []byte, hit bool, err error) {
	if data, hit, err := c.Get(ctx, key); err == nil && hit {
		return data, true, nil
	}
	data, err = fill(ctx)
	if err != nil {
		return nil, false, err
	}
	_ = c.Set(ctx, key, data, ttl)
	return data, false, nil
}

// Lookup is Get with [ErrCacheMiss] for a miss.
func Lookup(ctx context.Context, c Cache, key string) ([]byte, error) {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, ErrCacheMiss
	}
	return data, nil
}

// Instrument reports cache traffic to the observability hooks. The key type
// is the key's first segment ("artifact", "dataset").
func Instrument(c Cache) Cache {
	if _, ok := c.(*instrumented); ok {
		return c
	}
	return &instrumented{Cache: c}
}

type instrumented struct {
	Cache
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, hit, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

func (c *instrumented) Clear(ctx context.Context) error {
	if cl, ok := c.Cache.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return nil
}

// keyType is the key's first segment, e.g. "artifact".
func keyType(key string) string {
	typ, _, _ := strings.Cut(key, ":")
	return typ
}
