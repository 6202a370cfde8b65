package cache

import "errors"

// ErrItemClosed is returned when an item is closed more than once.
var ErrItemClosed = errors.New("cache: item already closed")

// Item is a handle on a cached value. Holding an item keeps the value
// alive even if the cache replaces or evicts it; the value is destroyed
// once the cache and every item have released their references. An item
// is bound to the exact value present when it was created.
type Item[K comparable, V any] struct {
	cache  *Cache[K, V]
	key    K
	gen    uint64
	data   V
	size   int
	closed bool
}

// Value returns the referenced data.
func (it *Item[K, V]) Value() V {
	return it.data
}

// Size returns the data size recorded when the value was cached.
func (it *Item[K, V]) Size() int {
	return it.size
}

// Close releases the item's reference. Closing the last reference to a
// value the cache no longer holds destroys the data. Closing twice
// returns ErrItemClosed.
func (it *Item[K, V]) Close() error {
	c := it.cache
	var dtors []func()
	c.mu.Lock()
	if it.closed {
		c.mu.Unlock()
		return ErrItemClosed
	}
	it.closed = true
	if c.closed {
		c.mu.Unlock()
		return nil
	}

	if e, ok := c.active[it.key]; ok && e.gen == it.gen {
		if e.dtor != nil {
			e.refs--
			if e.refs <= 0 {
				dtor, data := e.dtor, e.data
				dtors = append(dtors, func() { dtor(data) })
				e.dtor = nil
				delete(c.active, it.key)
			}
		}
	} else if e, ok := c.orphans[it.gen]; ok {
		e.refs--
		if e.refs <= 0 {
			if e.dtor != nil {
				dtor, data := e.dtor, e.data
				dtors = append(dtors, func() { dtor(data) })
			}
			delete(c.orphans, it.gen)
		}
	}
	c.mu.Unlock()

	for _, dtor := range dtors {
		dtor()
	}
	return nil
}
