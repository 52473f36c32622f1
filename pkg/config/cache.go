package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/brushlink/pkg/cache"
	brerrors "github.com/matzehuels/brushlink/pkg/errors"
)

// CacheDir is Cache.Dir or $XDG_CACHE_HOME/brushlink, falling back to
// ~/.cache/brushlink.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// OpenCache opens the configured backend, instrumented with the cache hooks.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Cache.Redis.Addr,
			Password: c.Cache.Redis.Password,
			DB:       c.Cache.Redis.DB,
			Prefix:   c.Cache.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return cache.Instrument(rc), nil
	case CacheFile, "":
		dir, err := c.CacheDir()
		if err != nil {
			return nil, err
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return cache.Instrument(fc), nil
	default:
		return nil, brerrors.New(brerrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
}
