package tiered

import "github.com/dolthub/swiss"

// LocalCache is the bounded in-memory tier (§4.6): a swiss.Map for O(1)
// lookup paired with a CircularBuffer tracking recency order. Every
// access that hits (Get, TryGet, a repeat AddOrOverwrite) promotes the
// key to most-recently-used; once the buffer is at capacity the least
// recently used key is evicted to make room for a new one.
type LocalCache[K comparable, V any] struct {
	data  *swiss.Map[K, V]
	order *CircularBuffer[K]
}

// NewLocalCache returns an empty LocalCache holding at most capacity
// entries.
func NewLocalCache[K comparable, V any](capacity int) *LocalCache[K, V] {
	return &LocalCache[K, V]{
		data:  swiss.NewMap[K, V](16),
		order: NewCircularBuffer[K](capacity),
	}
}

// AddOrOverwrite inserts key or, if already present, overwrites its
// value and promotes it to most-recently-used. If inserting a new key
// exceeds capacity, the least recently used key is evicted and returned
// with didEvict=true so the caller (typically a CachingDictionary) can
// demote it to the persistent tier.
func (lc *LocalCache[K, V]) AddOrOverwrite(key K, value V) (evictedKey K, evictedValue V, didEvict bool) {
	if _, exists := lc.data.Get(key); exists {
		lc.data.Put(key, value)
		lc.touch(key)
		return evictedKey, evictedValue, false
	}

	if lc.order.Capacity() == 0 {
		// A zero-capacity tier holds nothing: the incoming entry is
		// evicted before it is ever stored.
		return key, value, true
	}

	evKey, didEv := lc.order.Enqueue(key)
	if didEv {
		evictedValue, _ = lc.data.Get(evKey)
		lc.data.Delete(evKey)
		evictedKey = evKey
		didEvict = true
	}
	lc.data.Put(key, value)
	return evictedKey, evictedValue, didEvict
}

// Set is AddOrOverwrite without eviction visibility, for callers that
// don't need to know what was displaced.
func (lc *LocalCache[K, V]) Set(key K, value V) {
	lc.AddOrOverwrite(key, value)
}

// Get returns the value for key, promoting it to most-recently-used, or
// ErrKeyNotFound.
func (lc *LocalCache[K, V]) Get(key K) (V, error) {
	value, ok := lc.data.Get(key)
	if !ok {
		var zero V
		return zero, keyNotFoundf("tiered: key %v not found", key)
	}
	lc.touch(key)
	return value, nil
}

// TryGet is Get without an error return.
func (lc *LocalCache[K, V]) TryGet(key K) (V, bool) {
	value, ok := lc.data.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	lc.touch(key)
	return value, true
}

// Remove deletes key, if present, from both the map and the recency
// order, and reports whether it was present.
func (lc *LocalCache[K, V]) Remove(key K) (V, bool) {
	value, ok := lc.data.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	lc.data.Delete(key)
	if idx := lc.indexOf(key); idx >= 0 {
		lc.order.RemoveAt(idx)
	}
	return value, true
}

// Contains reports whether key is present, without affecting recency
// order.
func (lc *LocalCache[K, V]) Contains(key K) bool {
	_, ok := lc.data.Get(key)
	return ok
}

// Count returns the number of entries currently held.
func (lc *LocalCache[K, V]) Count() int {
	return lc.order.Len()
}

// Capacity returns the maximum number of entries this tier can hold.
func (lc *LocalCache[K, V]) Capacity() int {
	return lc.order.Capacity()
}

// Keys calls fn for every key currently held, oldest (least recently
// used) first. fn must not mutate the cache.
func (lc *LocalCache[K, V]) Keys(fn func(key K)) {
	for i := 0; i < lc.order.Len(); i++ {
		key, _ := lc.order.At(i)
		fn(key)
	}
}

// Entries calls fn with every (key, value) pair currently held, oldest
// (least recently used) first. fn must not mutate the cache.
func (lc *LocalCache[K, V]) Entries(fn func(key K, value V)) {
	for i := 0; i < lc.order.Len(); i++ {
		key, _ := lc.order.At(i)
		value, ok := lc.data.Get(key)
		if !ok {
			continue
		}
		fn(key, value)
	}
}

// Clear empties the cache.
func (lc *LocalCache[K, V]) Clear() {
	lc.data = swiss.NewMap[K, V](16)
	lc.order.Clear()
}

// touch moves key to the most-recently-used position.
func (lc *LocalCache[K, V]) touch(key K) {
	idx := lc.indexOf(key)
	if idx < 0 {
		return
	}
	lc.order.RemoveAt(idx)
	lc.order.Enqueue(key)
}

func (lc *LocalCache[K, V]) indexOf(key K) int {
	for i := 0; i < lc.order.Len(); i++ {
		v, _ := lc.order.At(i)
		if v == key {
			return i
		}
	}
	return -1
}
