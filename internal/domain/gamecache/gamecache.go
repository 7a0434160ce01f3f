// Package gamecache caches processed game results so a finished game's
// boxscore is fetched and parsed at most once across refresh cycles.
package gamecache

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/pucklab/puckrank/internal/domain/model"
)

// Cache stores per-team processed game results keyed by a per-team game key.
type Cache interface {
	// Get returns the cached result for a key and whether it was present.
	Get(ctx context.Context, key string) (model.RecentGameResult, bool)

	// Put records a processed game result. Re-putting an existing key
	// overwrites the stored result without growing the cache.
	Put(ctx context.Context, key string, result model.RecentGameResult)

	// Forget drops an entry from the cache so it can be reprocessed, for
	// example after a stats correction upstream.
	Forget(ctx context.Context, key string)

	Size() int64
}

// Key builds the cache key for a game as seen by one team. Both sides of
// a game cache independent results.
func Key(gameID int, teamID string) string {
	return strconv.Itoa(gameID) + ":" + teamID
}

// node is a single entry in the eviction list.
type node struct {
	key    string
	result model.RecentGameResult
	next   *node
}

func (n *node) reset() {
	n.key = ""
	n.result = model.RecentGameResult{}
	n.next = nil
}

// inMemoryCache implements Cache with a map plus linked list.
// Bounded mode (maxSize > 0) evicts LIFO and recycles nodes through a
// sync.Pool; unbounded mode (maxSize <= 0) keeps everything.
type inMemoryCache struct {
	mu       sync.RWMutex
	entries  map[string]*node
	head     *node
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// New creates an in-memory game cache with configuration options.
func New(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: 10000, // default max size
	}

	for _, opt := range opts {
		opt(c)
	}

	c.entries = make(map[string]*node)

	if c.maxSize > 0 {
		c.nodePool = sync.Pool{
			New: func() interface{} {
				return &node{}
			},
		}
	}

	return c
}

func (c *inMemoryCache) Get(ctx context.Context, key string) (model.RecentGameResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n, ok := c.entries[key]
	if !ok {
		return model.RecentGameResult{}, false
	}
	return n.result, true
}

func (c *inMemoryCache) Put(ctx context.Context, key string, result model.RecentGameResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		existing.result = result
		return
	}

	if c.maxSize > 0 {
		if len(c.entries) >= c.maxSize {
			c.evictLIFO()
		}

		n := c.nodePool.Get().(*node)
		n.key = key
		n.result = result
		n.next = c.head

		c.head = n
		c.entries[key] = n
	} else {
		n := &node{key: key, result: result}
		c.entries[key] = n
	}
	c.size.Add(1)
}

func (c *inMemoryCache) Forget(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		return
	}
	delete(c.entries, key)
	c.size.Add(-1)

	if c.maxSize <= 0 {
		return
	}

	if c.head == n {
		c.head = n.next
	} else {
		current := c.head
		for current != nil && current.next != n {
			current = current.next
		}
		if current != nil {
			current.next = n.next
		}
	}

	n.reset()
	c.nodePool.Put(n)
}

// evictLIFO removes the oldest entry (tail of the list).
// Must be called with c.mu held.
func (c *inMemoryCache) evictLIFO() {
	if len(c.entries) == 0 || c.head == nil {
		return
	}

	var prev *node
	current := c.head

	if current.next == nil {
		delete(c.entries, current.key)
		current.reset()
		c.nodePool.Put(current)
		c.head = nil
		c.size.Add(-1)
		return
	}

	for current.next != nil {
		prev = current
		current = current.next
	}

	prev.next = nil
	delete(c.entries, current.key)
	current.reset()
	c.nodePool.Put(current)
	c.size.Add(-1)
}

func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}
