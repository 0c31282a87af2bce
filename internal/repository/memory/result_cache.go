package memory

import (
	"fmt"
	"time"

	"kalkulai-be/pkg/catalog"
	"kalkulai-be/pkg/textnorm"

	"github.com/patrickmn/go-cache"
)

// ResultCache memoizes ranked candidate lists per normalized query.
// Determinism makes the cache safe: identical inputs always produce identical
// rankings, so a hit is indistinguishable from a recompute.
type ResultCache struct {
	cache *cache.Cache
}

func NewResultCache(ttl time.Duration) *ResultCache {
	// Purge expired items at twice the TTL interval
	c := cache.New(ttl, 2*ttl)
	return &ResultCache{
		cache: c,
	}
}

// Key builds the cache key from the normalized query and the result width.
// Normalizing here lets "Tiefgrund  LF" and "tiefgrund lf" share one slot.
func (r *ResultCache) Key(query string, topK int) string {
	return fmt.Sprintf("%s|%d", textnorm.Normalize(query), topK)
}

func (r *ResultCache) Get(key string) ([]catalog.RankedCandidate, bool) {
	if x, found := r.cache.Get(key); found {
		return x.([]catalog.RankedCandidate), true
	}
	return nil, false
}

func (r *ResultCache) Set(key string, candidates []catalog.RankedCandidate) {
	r.cache.Set(key, candidates, cache.DefaultExpiration)
}

// Flush drops every cached result. Called on catalog mutation so stale
// rankings never outlive the data they were computed from.
func (r *ResultCache) Flush() {
	r.cache.Flush()
}

// ItemCount reports the live entry count, expired items included until purge.
func (r *ResultCache) ItemCount() int {
	return r.cache.ItemCount()
}
