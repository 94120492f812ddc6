// Package pagecontext caches enriched page descriptions keyed by normalized
// URL (plus persona, when supplied). Entries live for the configured TTL and
// are evicted lazily on read.
package pagecontext

import (
	"context"
	"errors"

	"adserve-core/internal/models"
)

// ErrCacheMiss is returned when no live entry exists for a key.
var ErrCacheMiss = errors.New("page context not found in cache")

// Cache is the page-context cache contract. Get returns ErrCacheMiss for both
// absent and expired entries; expired entries are removed as a side effect.
type Cache interface {
	Get(ctx context.Context, key string) (*models.PageDescription, error)
	Put(ctx context.Context, key string, desc *models.PageDescription) error
}
