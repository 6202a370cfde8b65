package cache

import "sync"

// Registry manages a set of named cache lines sharing a key and value
// type. Services use one line per kind of data they cache, such as a
// rendered image and its alpha mask, so that purging an owner clears
// every kind at once. Lines are created on first use and live until the
// registry is closed.
//
// A Registry must not be copied after creation (has mutex).
type Registry[K comparable, V any] struct {
	mu     sync.RWMutex
	lines  map[string]*Cache[K, V]
	opts   []Option
	closed bool
}

// NewRegistry creates an empty registry. The options apply to every line
// it creates.
func NewRegistry[K comparable, V any](opts ...Option) *Registry[K, V] {
	return &Registry[K, V]{
		lines: make(map[string]*Cache[K, V]),
		opts:  opts,
	}
}

// Line returns the cache line with the given name, creating it if
// needed. A closed registry returns a detached closed line so callers
// degrade to cache misses.
func (r *Registry[K, V]) Line(name string) *Cache[K, V] {
	r.mu.RLock()
	line, ok := r.lines[name]
	r.mu.RUnlock()
	if ok {
		return line
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if line, ok = r.lines[name]; ok {
		return line
	}
	line = New[K, V](r.opts...)
	if r.closed {
		line.Close()
		return line
	}
	r.lines[name] = line
	return line
}

// Purge removes and destroys the data cached for key in every line.
func (r *Registry[K, V]) Purge(key K) {
	r.mu.RLock()
	lines := make([]*Cache[K, V], 0, len(r.lines))
	for _, line := range r.lines {
		lines = append(lines, line)
	}
	r.mu.RUnlock()
	for _, line := range lines {
		line.Purge(key)
	}
}

// Close closes every line, destroying all cached data. Lines requested
// afterwards are already closed and miss on every get.
func (r *Registry[K, V]) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	lines := make([]*Cache[K, V], 0, len(r.lines))
	for _, line := range r.lines {
		lines = append(lines, line)
	}
	r.lines = make(map[string]*Cache[K, V])
	r.mu.Unlock()
	for _, line := range lines {
		line.Close()
	}
}

// Lines returns the number of lines currently open.
func (r *Registry[K, V]) Lines() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lines)
}
