package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching encoded values
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogRepository supplies catalog snapshots. Implementations must hand out
// snapshots that are never mutated after being returned.
type CatalogRepository interface {
	Snapshot(ctx context.Context) (*Catalog, error)
}
