package mlclient

import (
	"context"
	"sync"

	"github.com/couchcryptid/bike-demand-service/internal/domain"
	"github.com/couchcryptid/bike-demand-service/internal/observability"
)

// CachedModel wraps a Model with an in-memory LRU cache. The model is
// deterministic for a fixed artifact, so identical feature vectors always
// produce the same prediction.
type CachedModel struct {
	inner   domain.Model
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedModel creates a cache decorator around a model.
func NewCachedModel(inner domain.Model, maxEntries int, metrics *observability.Metrics) *CachedModel {
	return &CachedModel{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedModel) Predict(ctx context.Context, features domain.FeatureVector) (float64, error) {
	if value, ok := c.cache.get(features); ok {
		c.metrics.ModelCache.WithLabelValues("hit").Inc()
		return value, nil
	}
	c.metrics.ModelCache.WithLabelValues("miss").Inc()

	value, err := c.inner.Predict(ctx, features)
	if err != nil {
		return 0, err
	}
	c.cache.put(features, value)
	return value, nil
}

// lruCache is a simple thread-safe LRU cache of predictions keyed by feature vector.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[domain.FeatureVector]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   domain.FeatureVector
	value float64
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[domain.FeatureVector]*entry),
	}
}

func (c *lruCache) get(key domain.FeatureVector) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key domain.FeatureVector, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
