package ephem

import (
	"sync"
	"time"
)

const (
	// DefaultPathDuration is the default time span for sampled paths.
	DefaultPathDuration = 24 * time.Hour

	// DefaultPathStep is the default step between path points.
	DefaultPathStep = 10 * time.Minute

	// PathCacheTTL is how long a sampled path is reused before regenerating.
	PathCacheTTL = 5 * time.Minute
)

type pathKey struct {
	body       Body
	start, end int64
	step       time.Duration
}

// cachedPath stores a sampled path.
type cachedPath struct {
	places    []Place
	fetchedAt time.Time
}

// CachedProvider memoizes sampled paths of an underlying provider.
// Single places are passed straight through.
type CachedProvider struct {
	Provider

	ttl time.Duration
	now func() time.Time

	mu        sync.RWMutex
	pathCache map[pathKey]*cachedPath
}

// NewCachedProvider wraps p with a path cache. A non-positive ttl selects
// PathCacheTTL.
func NewCachedProvider(p Provider, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = PathCacheTTL
	}
	return &CachedProvider{
		Provider:  p,
		ttl:       ttl,
		now:       time.Now,
		pathCache: make(map[pathKey]*cachedPath),
	}
}

// Name implements Provider.
func (c *CachedProvider) Name() string {
	return c.Provider.Name() + "+cache"
}

// Path returns a cached path if available, otherwise samples a fresh one.
// The returned slice must not be modified.
func (c *CachedProvider) Path(b Body, start, end time.Time, step time.Duration) ([]Place, error) {
	key := pathKey{body: b, start: start.UnixNano(), end: end.UnixNano(), step: step}

	c.mu.RLock()
	cached, ok := c.pathCache[key]
	c.mu.RUnlock()

	if ok && c.now().Sub(cached.fetchedAt) < c.ttl {
		return cached.places, nil
	}

	places, err := Path(c.Provider, b, start, end, step)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.evictLocked()
	c.pathCache[key] = &cachedPath{places: places, fetchedAt: c.now()}
	c.mu.Unlock()

	return places, nil
}

// Len returns the number of cached paths.
func (c *CachedProvider) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pathCache)
}

// evictLocked drops expired entries. Caller holds mu.
func (c *CachedProvider) evictLocked() {
	now := c.now()
	for k, v := range c.pathCache {
		if now.Sub(v.fetchedAt) >= c.ttl {
			delete(c.pathCache, k)
		}
	}
}
