package cache

import (
	"io"
	"log/slog"
	"sync"
)

// cacheSize is the fixed number of owner keys tracked per cache.
const cacheSize = 10

type entry[K comparable, V any] struct {
	key  K
	data V
	size int
	refs int
	dtor func(V)
	gen  uint64
}

// Cache is a fixed-capacity LRU cache of reference counted values.
// The zero value is not usable; create one with New. A Cache must not be
// copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	arrays  [2][cacheSize]K
	which   int
	count   int
	active  map[K]*entry[K, V]
	orphans map[uint64]*entry[K, V]
	gen     uint64
	closed  bool
	log     *slog.Logger
}

type config struct {
	logger *slog.Logger
}

// Option configures a Cache.
type Option func(*config)

// WithLogger directs the cache's debug logging to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an empty cache.
func New[K comparable, V any](opts ...Option) *Cache[K, V] {
	cfg := config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Cache[K, V]{
		active:  make(map[K]*entry[K, V]),
		orphans: make(map[uint64]*entry[K, V]),
		log:     cfg.logger,
	}
}

// shuffle copies the surviving keys into the alternate array, leaving the
// top slot free for the caller when key is present, and reports whether
// key was found. The caller is responsible for swapping the arrays; a
// caller that does not swap leaves the cache unchanged.
func (c *Cache[K, V]) shuffle(key K) bool {
	cur := &c.arrays[c.which]
	alt := &c.arrays[1-c.which]
	j := c.count - 1
	hit := false

	if c.count > 0 && c.count < cacheSize {
		for i := c.count - 1; i >= 0 && !hit; i-- {
			if cur[i] == key {
				hit = true
			}
		}
		// Still filling: a miss shifts nothing out, so keep every slot.
		if !hit {
			j++
		}
		hit = false
	}

	for i := c.count - 1; i >= 0; i-- {
		switch {
		case !hit && cur[i] == key:
			hit = true
		case j > 0:
			j--
			alt[j] = cur[i]
		}
	}
	return hit
}

// releaseOwner drops the cache's own reference on the entry for key.
// With no items outstanding the data is scheduled for destruction;
// otherwise the entry moves to the orphan list until its last item
// closes. Entries with a nil destructor are simply forgotten.
// Callers must hold mu and run the returned destructors after unlocking.
func (c *Cache[K, V]) releaseOwner(key K, dtors *[]func()) {
	e, ok := c.active[key]
	if !ok {
		return
	}
	delete(c.active, key)
	if e.dtor == nil {
		return
	}
	e.refs--
	if e.refs <= 0 {
		dtor, data := e.dtor, e.data
		*dtors = append(*dtors, func() { dtor(data) })
		e.dtor = nil
		return
	}
	c.orphans[e.gen] = e
}

// Put stores data for key, replacing any previous value. The previous
// value is released: destroyed if no items reference it, orphaned until
// its items close otherwise. When the cache is full the least recently
// used entry is released to make room. The destructor may be nil, in
// which case the cache never destroys the data. Destructors run without
// the cache lock held.
func (c *Cache[K, V]) Put(key K, data V, size int, destructor func(V)) {
	var dtors []func()
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		if destructor != nil {
			destructor(data)
		}
		return
	}

	hit := c.shuffle(key)
	alt := &c.arrays[1-c.which]
	switch {
	case hit:
		c.releaseOwner(key, &dtors)
		alt[c.count-1] = key
	case c.count < cacheSize:
		alt[c.count] = key
		c.count++
	default:
		evicted := c.arrays[c.which][0]
		c.releaseOwner(evicted, &dtors)
		alt[c.count-1] = key
		c.log.Debug("cache evicted", "key", evicted)
	}

	c.gen++
	c.active[key] = &entry[K, V]{
		key:  key,
		data: data,
		size: size,
		refs: 1,
		dtor: destructor,
		gen:  c.gen,
	}
	c.which = 1 - c.which
	c.log.Debug("cache put", "key", key, "size", size)
	c.mu.Unlock()

	for _, dtor := range dtors {
		dtor()
	}
}

// Get returns an item referencing the cached value for key, or nil when
// the key is not cached. A hit promotes the key to most recently used.
// The caller must close the item to release its reference.
func (c *Cache[K, V]) Get(key K) *Item[K, V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.shuffle(key) {
		return nil
	}

	// Promote to the MRU end.
	alt := &c.arrays[1-c.which]
	alt[c.count-1] = key
	c.which = 1 - c.which

	e, ok := c.active[key]
	if !ok {
		return nil
	}
	e.refs++
	return &Item[K, V]{
		cache: c,
		key:   key,
		gen:   e.gen,
		data:  e.data,
		size:  e.size,
	}
}

// Purge removes and destroys all data cached for key, regardless of
// outstanding items, including orphaned values that still belong to it.
// Open items for the key remain safe to close afterwards.
func (c *Cache[K, V]) Purge(key K) {
	var dtors []func()
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	cur := &c.arrays[c.which]
	alt := &c.arrays[1-c.which]
	j := 0
	for i := 0; i < c.count; i++ {
		if cur[i] != key {
			alt[j] = cur[i]
			j++
		}
	}
	c.count = j
	c.which = 1 - c.which

	if e, ok := c.active[key]; ok {
		if e.dtor != nil {
			dtor, data := e.dtor, e.data
			dtors = append(dtors, func() { dtor(data) })
		}
		delete(c.active, key)
	}
	for gen, e := range c.orphans {
		if e.key == key {
			if e.dtor != nil {
				dtor, data := e.dtor, e.data
				dtors = append(dtors, func() { dtor(data) })
			}
			delete(c.orphans, gen)
		}
	}
	c.mu.Unlock()

	for _, dtor := range dtors {
		dtor()
	}
}

// Close destroys all cached and orphaned data unconditionally and makes
// every later cache operation a no-op. Items open at close time remain
// safe to close.
func (c *Cache[K, V]) Close() {
	var dtors []func()
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for _, e := range c.active {
		if e.dtor != nil {
			dtor, data := e.dtor, e.data
			dtors = append(dtors, func() { dtor(data) })
		}
	}
	for _, e := range c.orphans {
		if e.dtor != nil {
			dtor, data := e.dtor, e.data
			dtors = append(dtors, func() { dtor(data) })
		}
	}
	c.active = nil
	c.orphans = nil
	c.count = 0
	c.mu.Unlock()

	for _, dtor := range dtors {
		dtor()
	}
}

// Len returns the number of keys currently tracked.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}
