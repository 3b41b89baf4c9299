// Package cache keeps recently produced conversion outputs in memory, keyed
// by the converter settings and the input content.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
)

// DefaultMaxBytes bounds a cache created with a non-positive size (32 MB).
const DefaultMaxBytes = 32 << 20

// evictionSample is the number of least recently used entries weighed
// against each other when room is needed.
const evictionSample = 5

// Key derives the cache key for converting src with the given settings.
func Key(settings string, src []byte) string {
	h := sha256.New()
	h.Write([]byte(settings))
	h.Write([]byte{0})
	h.Write(src)

	return hex.EncodeToString(h.Sum(nil))
}

// LRU is a byte-bounded cache of outputs. Among the least recently used
// entries, large and rarely read ones go first. It is safe for concurrent use.
type LRU[V any] struct {
	mu      sync.Mutex
	entries map[string]*entry[V]
	head    *entry[V]
	tail    *entry[V]
	size    int64
	maxSize int64
	sizeOf  func(V) int64

	hits   atomic.Int64
	misses atomic.Int64
}

type entry[V any] struct {
	key   string
	value V
	size  int64
	reads int64
	prev  *entry[V]
	next  *entry[V]
}

// cost is reads per KB: the cheapest entry to lose has the lowest.
func (e *entry[V]) cost() float64 {
	kb := max(float64(e.size)/1024, 1)

	return float64(e.reads) / kb
}

// NewLRU creates a cache holding at most maxBytes as measured by sizeOf.
func NewLRU[V any](maxBytes int64, sizeOf func(V) int64) *LRU[V] {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	return &LRU[V]{
		entries: make(map[string]*entry[V]),
		maxSize: maxBytes,
		sizeOf:  sizeOf,
	}
}

// Get returns the value stored under key.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)

		var zero V

		return zero, false
	}

	c.hits.Add(1)

	e.reads++
	c.moveToFront(e)

	return e.value, true
}

// Put stores value under key. Values larger than the whole cache are not
// kept.
func (c *LRU[V]) Put(key string, value V) {
	size := c.sizeOf(value)
	if size > c.maxSize {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.size += size - e.size
		e.value, e.size = value, size
		c.moveToFront(e)

		return
	}

	for c.size+size > c.maxSize && c.tail != nil {
		c.evict()
	}

	e := &entry[V]{key: key, value: value, size: size, reads: 1}
	c.entries[key] = e
	c.size += size
	c.pushFront(e)
}

// Stats reports cache usage.
func (c *LRU[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: len(c.entries),
		Bytes:   c.size,
		MaxSize: c.maxSize,
	}
}

// Stats holds cache counters.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
	Bytes   int64 `json:"bytes"`
	MaxSize int64 `json:"max_bytes"`
}

// HitRate returns hits over lookups, or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

func (c *LRU[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}

	c.unlink(e)
	c.pushFront(e)
}

func (c *LRU[V]) pushFront(e *entry[V]) {
	e.prev = nil
	e.next = c.head

	if c.head != nil {
		c.head.prev = e
	}

	c.head = e

	if c.tail == nil {
		c.tail = e
	}
}

func (c *LRU[V]) unlink(e *entry[V]) {
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

// evict drops the lowest-cost entry among the evictionSample oldest.
func (c *LRU[V]) evict() {
	victim := c.tail
	lowest := victim.cost()

	for e, n := victim.prev, 1; e != nil && n < evictionSample; e, n = e.prev, n+1 {
		if cost := e.cost(); cost < lowest {
			victim, lowest = e, cost
		}
	}

	c.unlink(victim)
	delete(c.entries, victim.key)
	c.size -= victim.size
}
