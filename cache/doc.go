// Package cache implements a small fixed-capacity LRU cache of reference
// counted data blobs indexed by an owner key.
//
// The cache holds at most ten entries. Recency is tracked by copying keys
// between two fixed arrays instead of maintaining a linked list; every
// hit promotes its key to the most recently used slot, and inserting into
// a full cache drops the least recently used entry.
//
// Each cached value carries a reference count. The cache itself holds one
// reference, and every Item handed out by Get holds another. A value's
// destructor runs only once the cache has released its reference and all
// items are closed. Values stored with a nil destructor are never
// destroyed by the cache.
//
// Replacing a value whose old data still has open items moves the old
// entry aside as an orphan; the orphan is destroyed when its last item is
// closed. Items are bound to the exact value they were created for, so a
// replacement can never redirect an old handle onto new data.
//
// Purge and Close destroy data unconditionally. An item open across a
// purge stays safe to close, but its data must no longer be used.
//
// This is intended for services that cache one somewhat large object per
// instance, such as a producer holding a decoded picture, where
// recreating the object on a miss is straightforward.
package cache
