package render

import (
	"fmt"
	"sync"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/figure"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/observability"
)

// CachedRenderer wraps a FigureRenderer with an in-memory LRU cache keyed by
// figure identity and output size.
type CachedRenderer struct {
	inner   FigureRenderer
	cache   *lruCache[[]byte]
	metrics *observability.Metrics
}

// NewCachedRenderer creates a cache decorator around a renderer. A maxEntries
// of zero disables caching.
func NewCachedRenderer(inner FigureRenderer, maxEntries int, metrics *observability.Metrics) *CachedRenderer {
	return &CachedRenderer{
		inner:   inner,
		cache:   newLRUCache[[]byte](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedRenderer) Render(fig *figure.Figure, opts Options) ([]byte, error) {
	if fig == nil || c.cache.maxEntries <= 0 {
		return c.inner.Render(fig, opts)
	}
	key := fmt.Sprintf("%d|%dx%d", fig.ID(), opts.Width, opts.PanelHeight)
	if img, ok := c.cache.get(key); ok {
		c.metrics.RenderCache.WithLabelValues("hit").Inc()
		return img, nil
	}
	c.metrics.RenderCache.WithLabelValues("miss").Inc()

	img, err := c.inner.Render(fig, opts)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, img)
	return img, nil
}

// Len returns the number of cached images.
func (c *CachedRenderer) Len() int { return c.cache.size() }

// lruCache is a thread-safe, size-bounded LRU cache.
type lruCache[V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
}

type entry[V any] struct {
	key   string
	value V
	prev  *entry[V]
	next  *entry[V]
}

func newLRUCache[V any](maxEntries int) *lruCache[V] {
	return &lruCache[V]{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry[V]),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[V]) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.addToFront(e)
}

func (c *lruCache[V]) addToFront(e *entry[V]) {
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

func (c *lruCache[V]) unlink(e *entry[V]) {
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

func (c *lruCache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.unlink(c.tail)
}
