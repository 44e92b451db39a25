package tiered

import "github.com/dolthub/swiss"

// PersistentDictionary is the unbounded, heap-backed tier (§4.4): an
// index of K -> Handle kept entirely in memory, with the values
// themselves living in a SerializingCache over a Heap. It never evicts.
type PersistentDictionary[K comparable, V any] struct {
	index *swiss.Map[K, Handle]
	cache *SerializingCache[V]
}

// NewPersistentDictionary returns an empty PersistentDictionary backed by
// cache.
func NewPersistentDictionary[K comparable, V any](cache *SerializingCache[V]) *PersistentDictionary[K, V] {
	return &PersistentDictionary[K, V]{
		index: swiss.NewMap[K, Handle](16),
		cache: cache,
	}
}

// Add inserts key with value, failing with ErrDuplicateKey if key is
// already present (§4.4).
func (pd *PersistentDictionary[K, V]) Add(key K, value V) error {
	if _, ok := pd.index.Get(key); ok {
		return duplicateKeyf("tiered: key %v already present", key)
	}
	handle, err := pd.cache.Create(value)
	if err != nil {
		return err
	}
	pd.index.Put(key, handle)
	return nil
}

// Remove deletes key, freeing its backing block. It is an error to
// remove a key that is not present.
func (pd *PersistentDictionary[K, V]) Remove(key K) error {
	handle, ok := pd.index.Get(key)
	if !ok {
		return keyNotFoundf("tiered: key %v not found", key)
	}
	pd.index.Delete(key)
	return pd.cache.Delete(handle)
}

// Get returns the value stored for key, or ErrKeyNotFound.
func (pd *PersistentDictionary[K, V]) Get(key K) (V, error) {
	var zero V
	handle, ok := pd.index.Get(key)
	if !ok {
		return zero, keyNotFoundf("tiered: key %v not found", key)
	}
	return pd.cache.Read(handle)
}

// TryGet returns the value stored for key and whether key was present,
// never returning an error for a missing key.
func (pd *PersistentDictionary[K, V]) TryGet(key K) (V, bool) {
	var zero V
	handle, ok := pd.index.Get(key)
	if !ok {
		return zero, false
	}
	value, err := pd.cache.Read(handle)
	if err != nil {
		return zero, false
	}
	return value, true
}

// Set inserts key if absent or overwrites its value if present, unlike
// Add which rejects an existing key (§4.4).
func (pd *PersistentDictionary[K, V]) Set(key K, value V) error {
	handle, ok := pd.index.Get(key)
	if !ok {
		return pd.Add(key, value)
	}
	newHandle, err := pd.cache.Update(handle, value)
	if err != nil {
		return err
	}
	pd.index.Put(key, newHandle)
	return nil
}

// Contains reports whether key is present.
func (pd *PersistentDictionary[K, V]) Contains(key K) bool {
	_, ok := pd.index.Get(key)
	return ok
}

// Count returns the number of entries.
func (pd *PersistentDictionary[K, V]) Count() int {
	return pd.index.Count()
}

// Keys calls fn for every key currently present. Iteration order is
// unspecified (§4.4, §9) and fn must not mutate the dictionary.
func (pd *PersistentDictionary[K, V]) Keys(fn func(key K)) {
	pd.index.Iter(func(key K, _ Handle) (stop bool) {
		fn(key)
		return false
	})
}

// Entries calls fn with every (key, value) pair currently present (§4.4:
// "iteration yielding (k, read(handle))"). Iteration order is
// unspecified and fn must not mutate the dictionary.
func (pd *PersistentDictionary[K, V]) Entries(fn func(key K, value V)) {
	pd.index.Iter(func(key K, handle Handle) (stop bool) {
		value, err := pd.cache.Read(handle)
		if err != nil {
			return false
		}
		fn(key, value)
		return false
	})
}

// Clear removes every entry, freeing all backing blocks.
func (pd *PersistentDictionary[K, V]) Clear() error {
	var firstErr error
	pd.index.Iter(func(_ K, handle Handle) (stop bool) {
		if err := pd.cache.Delete(handle); err != nil && firstErr == nil {
			firstErr = err
		}
		return false
	})
	pd.index = swiss.NewMap[K, Handle](16)
	return firstErr
}

// Dispose releases the underlying SerializingCache.
func (pd *PersistentDictionary[K, V]) Dispose() error {
	return pd.cache.Dispose()
}

// HeapLength, AllocatedBytes and FreeBytes expose the underlying heap's
// usage for Stats.
func (pd *PersistentDictionary[K, V]) HeapLength() uint64    { return pd.cache.HeapLength() }
func (pd *PersistentDictionary[K, V]) AllocatedBytes() uint64 { return pd.cache.AllocatedBytes() }
func (pd *PersistentDictionary[K, V]) FreeBytes() uint64      { return pd.cache.FreeBytes() }

// Flush forces pending writes to stable storage, if supported.
func (pd *PersistentDictionary[K, V]) Flush() error { return pd.cache.Flush() }
