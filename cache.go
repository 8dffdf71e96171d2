package wypal

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of results a Cleaner keeps by default.
// Editors re-run the pipeline on every pause in typing, and toggling a rule
// back and forth revisits the same (source, config) pairs.
const DefaultCacheSize = 256

// Cleaner memoizes Clean. Because Clean is pure, a cached result is always
// identical to a fresh one. A Cleaner is safe for concurrent use.
type Cleaner struct {
	cache *lru.Cache[string, Result]
}

// NewCleaner creates a Cleaner holding up to size results. A size of zero
// or less disables caching.
func NewCleaner(size int) *Cleaner {
	if size <= 0 {
		return &Cleaner{}
	}
	cache, _ := lru.New[string, Result](size)
	return &Cleaner{cache: cache}
}

// Clean returns the pipeline result for source under cfg, computing it only
// on a cache miss.
func (c *Cleaner) Clean(source string, cfg RuleConfig) Result {
	if c.cache == nil {
		return Clean(source, cfg)
	}

	key := cacheKey(source, cfg)
	if res, ok := c.cache.Get(key); ok {
		return res.clone()
	}

	res := Clean(source, cfg)
	c.cache.Add(key, res)
	return res.clone()
}

// Cached reports whether a result for (source, cfg) is held, without
// touching its recency.
func (c *Cleaner) Cached(source string, cfg RuleConfig) bool {
	if c.cache == nil {
		return false
	}
	return c.cache.Contains(cacheKey(source, cfg))
}

// Len returns the number of cached results.
func (c *Cleaner) Len() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

// Purge drops every cached result.
func (c *Cleaner) Purge() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

func cacheKey(source string, cfg RuleConfig) string {
	return cfg.Fingerprint() + "\x00" + source
}
