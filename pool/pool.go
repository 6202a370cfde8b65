package pool

import (
	"sync"
	"sync/atomic"
)

// minAlloc is the smallest size class. Requests below it still consume a
// buffer of this capacity.
const minAlloc = 256

// Pool is a thread-safe free list of byte buffers grouped by power-of-two
// capacity.
//
// Pool must not be copied after creation (has mutex).
type Pool struct {
	mu      sync.Mutex
	buckets map[int][][]byte
	maxSize int // max buffers retained per size class

	hits   atomic.Uint64
	misses atomic.Uint64
}

// Stats reports pool effectiveness counters.
type Stats struct {
	Hits   uint64 // allocations served from a free list
	Misses uint64 // allocations that made a fresh buffer
}

// NewPool creates a pool retaining at most maxPerBucket buffers per size
// class. A maxPerBucket of 0 means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[int][][]byte),
		maxSize: maxPerBucket,
	}
}

// sizeClass rounds size up to the pool's power-of-two capacity.
func sizeClass(size int) int {
	c := minAlloc
	for c < size {
		c <<= 1
	}
	return c
}

// Alloc returns a buffer of the requested length with unspecified contents.
// A size of zero or less returns nil.
func (p *Pool) Alloc(size int) []byte {
	if size <= 0 {
		return nil
	}
	class := sizeClass(size)

	p.mu.Lock()
	bucket := p.buckets[class]
	if n := len(bucket); n > 0 {
		buf := bucket[n-1]
		p.buckets[class] = bucket[:n-1]
		p.mu.Unlock()
		p.hits.Add(1)
		return buf[:size]
	}
	p.mu.Unlock()

	p.misses.Add(1)
	return make([]byte, size, class)
}

// Release returns a buffer to its size class. Buffers whose capacity is not
// one of the pool's size classes (for example a subslice or a buffer made
// elsewhere) are discarded. Release of nil is a no-op.
func (p *Pool) Release(buf []byte) {
	class := cap(buf)
	if class < minAlloc || class&(class-1) != 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[class]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[class] = append(bucket, buf[:0])
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() Stats {
	return Stats{Hits: p.hits.Load(), Misses: p.misses.Load()}
}

// defaultPool serves the package-level Alloc and Release used by the
// pipeline.
var defaultPool = NewPool(8)

// Alloc returns a buffer from the default pool.
func Alloc(size int) []byte {
	return defaultPool.Alloc(size)
}

// Release returns a buffer to the default pool.
func Release(buf []byte) {
	defaultPool.Release(buf)
}
