package compiler

import (
	"sync"

	"github.com/bloxgen-xyz/go-bloxgen/schema"
)

// Cache memoizes compilation results keyed by schema digest. Compilation is
// a pure function of the document, so a digest hit can return the previous
// result unchanged. Useful for embedding tools that recompile the same
// schema repeatedly, such as watch-mode generators.
type Cache struct {
	mu      sync.RWMutex
	results map[string]*Result
	order   []string // insertion order for FIFO eviction
	maxSize int

	hits   int64
	misses int64
}

// NewCache creates a cache with the given maximum entry count. Zero means
// unlimited.
func NewCache(maxSize int) *Cache {
	return &Cache{
		results: make(map[string]*Result),
		maxSize: maxSize,
	}
}

// Get returns the cached result for a digest, or nil.
func (c *Cache) Get(digest string) *Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := c.results[digest]
	if res != nil {
		c.hits++
	} else {
		c.misses++
	}
	return res
}

// Put stores a result under a digest, evicting the oldest entry when full.
func (c *Cache) Put(digest string, res *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.results[digest]; !exists {
		if c.maxSize > 0 && len(c.order) >= c.maxSize {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.results, oldest)
		}
		c.order = append(c.order, digest)
	}
	c.results[digest] = res
}

// Compile returns the memoized result for the document, compiling on miss.
func (c *Cache) Compile(doc *schema.Document) *Result {
	digest := SchemaDigest(doc)
	if res := c.Get(digest); res != nil {
		return res
	}
	res := Compile(doc)
	c.Put(digest, res)
	return res
}

// Stats returns hit and miss counts.
func (c *Cache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}
