// Package cache provides the in-memory response cache shared by the provider clients.
package cache

import (
	"container/list"
	"sync"
	"time"
)

const (
	// DefaultTTL is how long an entry stays live after it is set
	DefaultTTL = 5 * time.Minute

	// DefaultMaxEntries bounds the number of entries held at once
	DefaultMaxEntries = 100
)

type entry[V any] struct {
	key     string
	value   V
	expiry  time.Time
	seq     uint64
	element *list.Element // position in insertion order
}

// TTL is a key/value cache with a fixed time-to-live and a capacity bound.
// When full, the oldest-inserted entry is evicted (insertion order, not LRU).
// Safe for concurrent use.
type TTL[V any] struct {
	mu         sync.Mutex
	entries    map[string]*entry[V]
	order      *list.List // front = oldest insertion
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	// request sequencing for keys with a Begin outstanding; dropped once the
	// last one finishes, the stored entry keeps its own seq
	seqs map[string]*seqState
}

type seqState struct {
	last     uint64
	inflight int
}

// Option configures a TTL cache
type Option func(*options)

type options struct {
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// WithTTL overrides DefaultTTL
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithMaxEntries overrides DefaultMaxEntries
func WithMaxEntries(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxEntries = n
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates an empty cache
func New[V any](opts ...Option) *TTL[V] {
	o := options{ttl: DefaultTTL, maxEntries: DefaultMaxEntries, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &TTL[V]{
		entries:    make(map[string]*entry[V], o.maxEntries),
		order:      list.New(),
		ttl:        o.ttl,
		maxEntries: o.maxEntries,
		now:        o.now,
		seqs:       make(map[string]*seqState),
	}
}

// Get returns the value for key if it is present and not expired.
// An expired entry is removed.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().After(e.expiry) {
		c.removeLocked(e)
		return zero, false
	}
	return e.value, true
}

// Set inserts or overwrites key with a fresh expiry
func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value, 0)
}

// Begin issues the next request sequence number for key. Every Begin must be
// closed by SetSeq or Finish; SetSeq drops responses that land after a newer
// one for the same key.
func (c *TTL[V]) Begin(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.seqs[key]
	if !ok {
		st = &seqState{}
		if e, ok := c.entries[key]; ok {
			st.last = e.seq
		}
		c.seqs[key] = st
	}
	st.last++
	st.inflight++
	return st.last
}

// SetSeq stores value only if no entry from a later request (higher seq) is live.
// Reports whether the value was stored. It closes the matching Begin.
func (c *TTL[V]) SetSeq(key string, seq uint64, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.finishLocked(key)

	if e, ok := c.entries[key]; ok && e.seq > seq && !c.now().After(e.expiry) {
		return false
	}
	c.setLocked(key, value, seq)
	return true
}

// Finish closes a Begin whose request produced nothing to store
func (c *TTL[V]) Finish(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finishLocked(key)
}

func (c *TTL[V]) finishLocked(key string) {
	st, ok := c.seqs[key]
	if !ok {
		return
	}
	if st.inflight--; st.inflight <= 0 {
		delete(c.seqs, key)
	}
}

// Pending returns how many keys have a Begin outstanding
func (c *TTL[V]) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seqs)
}

func (c *TTL[V]) setLocked(key string, value V, seq uint64) {
	expiry := c.now().Add(c.ttl)

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiry = expiry
		e.seq = seq
		return
	}

	if len(c.entries) >= c.maxEntries {
		if oldest := c.order.Front(); oldest != nil {
			c.removeLocked(oldest.Value.(*entry[V]))
		}
	}

	e := &entry[V]{key: key, value: value, expiry: expiry, seq: seq}
	e.element = c.order.PushBack(e)
	c.entries[key] = e
}

// Delete removes key. Reports whether it was present.
func (c *TTL[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.removeLocked(e)
	return true
}

func (c *TTL[V]) removeLocked(e *entry[V]) {
	c.order.Remove(e.element)
	delete(c.entries, e.key)
}

// Clear empties the cache unconditionally. Counters of requests still in
// flight survive so they compare correctly when they land.
func (c *TTL[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry[V], c.maxEntries)
	c.order = list.New()
}

// Len returns the number of entries held, including ones that expired but were not yet read
func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns the held keys, oldest insertion first
func (c *TTL[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry[V]).key)
	}
	return keys
}
