package utils

import (
	"os"
	"sync"
	"time"
)

// cacheEntry is a cached value together with the file state it was read from
type cacheEntry[V any] struct {
	value   V
	modTime time.Time
	size    int64
}

// FileCache caches values derived from files and drops them once the file changes
type FileCache[V any] struct {
	mu     sync.RWMutex
	items  map[string]cacheEntry[V]
	hits   int
	misses int
}

// NewFileCache creates an empty cache
func NewFileCache[V any]() *FileCache[V] {
	return &FileCache[V]{items: make(map[string]cacheEntry[V])}
}

// Get returns the value cached for path if the file is unchanged since it was stored
func (c *FileCache[V]) Get(path string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.items[path]
	c.mu.RUnlock()

	if ok {
		if stat, err := os.Stat(path); err == nil && stat.ModTime().Equal(entry.modTime) && stat.Size() == entry.size {
			c.mu.Lock()
			c.hits++
			c.mu.Unlock()
			return entry.value, true
		}
	}

	c.mu.Lock()
	delete(c.items, path)
	c.misses++
	c.mu.Unlock()

	var zero V
	return zero, false
}

// Set stores value for path along with the current file state
func (c *FileCache[V]) Set(path string, value V) error {
	stat, err := os.Stat(path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[path] = cacheEntry[V]{value: value, modTime: stat.ModTime(), size: stat.Size()}
	return nil
}

// Delete removes path from the cache
func (c *FileCache[V]) Delete(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, path)
}

// Stats returns the number of cached entries, hits and misses
func (c *FileCache[V]) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{Size: len(c.items), Hits: c.hits, Misses: c.misses}
}

// CacheStats provides cache statistics
type CacheStats struct {
	Size   int
	Hits   int
	Misses int
}
