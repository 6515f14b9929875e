// Package inflight rejects a second AI operation on an idea while one is
// still outstanding.
package inflight

import (
	"context"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
)

var ErrOperationInProgress = errors.New("an AI operation is already in progress for this idea")

// Guard hands out one lease per key. The returned release func must be
// called when the operation finishes.
type Guard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// DefaultLeaseTTL bounds a lease whose holder crashed before releasing it.
const DefaultLeaseTTL = 10 * time.Minute

// MemoryGuard keeps leases in process memory.
type MemoryGuard struct {
	cache *cache.Cache
	ttl   time.Duration
}

var _ Guard = (*MemoryGuard)(nil)

func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	if ttl <= 0 {
		ttl = DefaultLeaseTTL
	}
	return &MemoryGuard{
		cache: cache.New(ttl, time.Minute),
		ttl:   ttl,
	}
}

func (g *MemoryGuard) Acquire(ctx context.Context, key string) (func(), error) {
	// Add fails when an unexpired item already exists.
	if err := g.cache.Add(key, struct{}{}, g.ttl); err != nil {
		return nil, ErrOperationInProgress
	}
	return func() { g.cache.Delete(key) }, nil
}
