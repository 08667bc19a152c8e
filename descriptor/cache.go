package descriptor

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/patrickmn/go-cache"
	"github.com/soypat/dnacurve"
)

// CacheStats counts the lookups of a Cache.
type CacheStats struct {
	Hits    int
	Misses  int
	Entries int
}

// Cache memoizes the discretization of expensive curve families, keyed by
// descriptor content and helix parameters. Entries never expire. It is safe
// for concurrent use.
type Cache struct {
	store *cache.Cache

	mu     sync.Mutex
	hits   int
	misses int
	// build is replaced in tests to count discretizations.
	build func(Descriptor, dnacurve.HelixParameters) *dnacurve.Discretized
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		store: cache.New(cache.NoExpiration, 0),
		build: discretize,
	}
}

// cacheable reports whether the curves of d are worth caching.
func cacheable(d Descriptor) bool {
	return d.TwistedTorus != nil || d.InterpolatedCurve != nil
}

func cacheKey(d Descriptor, hp dnacurve.HelixParameters) (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s|%v", b, hp), nil
}

// discretized returns the cached discretization of d, computing it on a miss.
// Concurrent misses on the same key compute it once.
func (c *Cache) discretized(d Descriptor, hp dnacurve.HelixParameters) *dnacurve.Discretized {
	key, err := cacheKey(d, hp)
	if err != nil {
		dnacurve.Logger().Warn("uncacheable curve descriptor", "kind", d.Kind(), "err", err)
		return c.build(d, hp)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.store.Get(key); ok {
		c.hits++
		return v.(*dnacurve.Discretized)
	}
	c.misses++
	disc := c.build(d, hp)
	c.store.Set(key, disc, cache.NoExpiration)
	dnacurve.Logger().Debug("cached curve", "kind", d.Kind(), "nucleotides", disc.Len())
	return disc
}

// Stats returns the lookup counters of c.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Entries: c.store.ItemCount()}
}

// Flush empties c.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Flush()
}
