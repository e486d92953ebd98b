package utils

import (
	"sync"
	"time"
)

// EmbeddingCache keeps vectors for texts that were embedded successfully.
// When full, the least recently accessed entry is evicted.
type EmbeddingCache struct {
	mu       sync.Mutex
	items    map[string]CacheItem
	capacity int
	hits     int
	misses   int
}

type CacheItem struct {
	value      []float64
	hits       int
	lastAccess time.Time
}

func NewEmbeddingCache(capacity int) *EmbeddingCache {
	return &EmbeddingCache{
		items:    make(map[string]CacheItem),
		capacity: capacity,
	}
}

// GetMissing fills found with cached vectors and returns the keys that
// still need embedding, deduplicated and in first-seen order.
func (c *EmbeddingCache) GetMissing(keys []string, found map[string][]float64) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	missing := []string{}
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true

		item, exists := c.items[key]
		if !exists {
			c.misses += 1
			missing = append(missing, key)
			continue
		}

		c.hits += 1
		item.hits += 1
		item.lastAccess = time.Now()
		c.items[key] = item
		found[key] = item.value
	}
	return missing
}

func (c *EmbeddingCache) Add(key string, value []float64) {
	if c.capacity <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.capacity {
		c.evictOldest()
	}
	c.items[key] = CacheItem{value: value, lastAccess: time.Now()}
}

func (c *EmbeddingCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	found := false
	for k, item := range c.items {
		if !found || item.lastAccess.Before(oldest) {
			oldestKey = k
			oldest = item.lastAccess
			found = true
		}
	}
	if found {
		delete(c.items, oldestKey)
	}
}

func (c *EmbeddingCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *EmbeddingCache) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hits+c.misses > 0 {
		return float64(c.hits) / float64(c.hits+c.misses)
	}
	return 0.0
}
