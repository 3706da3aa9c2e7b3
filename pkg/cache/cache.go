// Package cache provides the byte caches used by the pipeline runner.
//
// Three backends implement [Cache]:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one file per entry, for the CLI
//   - [RedisCache]: shared cache for the API server
//
// Keys come from a [Keyer] so callers never build key strings by hand.
// Pack results are keyed by the hash of the source matrix, layouts by the
// pack hash plus frame options, and artifacts by the layout hash plus format
// and style.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional TTL.
// A miss is reported as (nil, false, nil), never as an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs per cached stage.
const (
	PackTTL     = 7 * 24 * time.Hour
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
)

// FixedTTL wraps c so every Set uses ttl in place of the caller's TTL.
// A non-positive ttl returns c unchanged.
func FixedTTL(c Cache, ttl time.Duration) Cache {
	if ttl <= 0 {
		return c
	}
	return fixedTTL{Cache: c, ttl: ttl}
}

type fixedTTL struct {
	Cache
	ttl time.Duration
}

func (f fixedTTL) Set(ctx context.Context, key string, data []byte, _ time.Duration) error {
	return f.Cache.Set(ctx, key, data, f.ttl)
}
