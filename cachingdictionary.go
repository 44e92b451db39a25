package tiered

import "sync/atomic"

// CachingDictionary composes a bounded LocalCache with an unbounded
// PersistentDictionary (§4.7). A key lives in exactly one tier at a
// time: a local-cache hit or a persistent-dictionary miss never touch
// the other tier, but a persistent hit promotes the entry into the
// local cache, and the local cache's own eviction demotes its victim
// into the persistent tier. Total entry count across both tiers is
// conserved by every operation below except Add, Set of an absent key,
// Remove and Clear.
type CachingDictionary[K comparable, V any] struct {
	local      *LocalCache[K, V]
	persistent *PersistentDictionary[K, V]

	statHits   uint64
	statMisses uint64
}

// NewCachingDictionary returns a CachingDictionary with a local tier of
// the given capacity layered over persistent.
func NewCachingDictionary[K comparable, V any](localCapacity int, persistent *PersistentDictionary[K, V]) *CachingDictionary[K, V] {
	return &CachingDictionary[K, V]{
		local:      NewLocalCache[K, V](localCapacity),
		persistent: persistent,
	}
}

// Add inserts key into the local tier, failing with ErrDuplicateKey if
// key is already present in either tier. If the local tier is at
// capacity (or has none), the entry it displaces — which may be the
// entry just added, if the local tier's capacity is zero — lands in the
// persistent tier instead.
func (cd *CachingDictionary[K, V]) Add(key K, value V) error {
	if cd.local.Contains(key) || cd.persistent.Contains(key) {
		return duplicateKeyf("tiered: key %v already present", key)
	}
	evKey, evVal, didEvict := cd.local.AddOrOverwrite(key, value)
	if !didEvict {
		return nil
	}
	if evKey == key {
		return cd.persistent.Add(key, value)
	}
	return cd.persistent.Add(evKey, evVal)
}

// Remove deletes key from whichever tier holds it.
func (cd *CachingDictionary[K, V]) Remove(key K) error {
	if _, ok := cd.local.Remove(key); ok {
		return nil
	}
	return cd.persistent.Remove(key)
}

// TryGet returns the value for key and whether it was present. A hit in
// the persistent tier promotes the entry into the local tier; if that
// displaces another entry (or, with a zero-capacity local tier, the
// entry just promoted), the displaced entry is demoted back to the
// persistent tier so no entry is lost.
func (cd *CachingDictionary[K, V]) TryGet(key K) (V, bool) {
	if v, ok := cd.local.TryGet(key); ok {
		atomic.AddUint64(&cd.statHits, 1)
		return v, true
	}
	v, ok := cd.persistent.TryGet(key)
	if !ok {
		atomic.AddUint64(&cd.statMisses, 1)
		var zero V
		return zero, false
	}
	atomic.AddUint64(&cd.statHits, 1)

	cd.persistent.Remove(key)
	evKey, evVal, didEvict := cd.local.AddOrOverwrite(key, v)
	if didEvict {
		if evKey == key {
			cd.persistent.Set(key, v)
		} else {
			cd.persistent.Set(evKey, evVal)
		}
	}
	return v, true
}

// Get is TryGet with an ErrKeyNotFound error in place of a bool.
func (cd *CachingDictionary[K, V]) Get(key K) (V, error) {
	v, ok := cd.TryGet(key)
	if !ok {
		return v, keyNotFoundf("tiered: key %v not found", key)
	}
	return v, nil
}

// Set inserts key if absent, or overwrites it if present. A key held in
// the persistent tier is promoted into the local tier with the new value;
// any entry the local tier displaces (with a zero-capacity local tier, the
// key itself) is demoted to the persistent tier.
func (cd *CachingDictionary[K, V]) Set(key K, value V) error {
	if cd.local.Contains(key) {
		cd.local.Set(key, value)
		return nil
	}
	if cd.persistent.Contains(key) {
		if err := cd.persistent.Remove(key); err != nil {
			return err
		}
		evKey, evVal, didEvict := cd.local.AddOrOverwrite(key, value)
		if didEvict {
			return cd.persistent.Set(evKey, evVal)
		}
		return nil
	}
	return cd.Add(key, value)
}

// Contains reports whether key is present in either tier, without
// promoting it.
func (cd *CachingDictionary[K, V]) Contains(key K) bool {
	return cd.local.Contains(key) || cd.persistent.Contains(key)
}

// Count returns the total number of entries across both tiers.
func (cd *CachingDictionary[K, V]) Count() int {
	return cd.local.Count() + cd.persistent.Count()
}

// Keys calls fn for every key across both tiers: local-tier keys first
// (oldest first), then persistent-tier keys in unspecified order.
func (cd *CachingDictionary[K, V]) Keys(fn func(key K)) {
	cd.local.Keys(fn)
	cd.persistent.Keys(fn)
}

// Entries calls fn with every (key, value) pair across both tiers: local
// entries first (oldest first), then persistent entries in unspecified
// order (§4.7: "iteration: yields L entries followed by P entries").
func (cd *CachingDictionary[K, V]) Entries(fn func(key K, value V)) {
	cd.local.Entries(fn)
	cd.persistent.Entries(fn)
}

// Clear empties both tiers.
func (cd *CachingDictionary[K, V]) Clear() error {
	cd.local.Clear()
	return cd.persistent.Clear()
}

// Dispose releases the persistent tier's underlying heap. The local
// tier owns no external resources.
func (cd *CachingDictionary[K, V]) Dispose() error {
	return cd.persistent.Dispose()
}

// Stats returns a snapshot of hit/miss counters and the persistent
// tier's heap usage.
func (cd *CachingDictionary[K, V]) Stats() Stats {
	hits := atomic.LoadUint64(&cd.statHits)
	misses := atomic.LoadUint64(&cd.statMisses)
	var ratio float64
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total) * 100.0
	}
	return Stats{
		Hits:           hits,
		Misses:         misses,
		HitRatio:       ratio,
		LocalCount:     cd.local.Count(),
		LocalCapacity:  cd.local.Capacity(),
		PersistentCount: cd.persistent.Count(),
		HeapLength:     cd.persistent.HeapLength(),
		AllocatedBytes: cd.persistent.AllocatedBytes(),
		FreeBytes:      cd.persistent.FreeBytes(),
	}
}

// ResetStats zeroes the hit/miss counters.
func (cd *CachingDictionary[K, V]) ResetStats() {
	atomic.StoreUint64(&cd.statHits, 0)
	atomic.StoreUint64(&cd.statMisses, 0)
}

// Flush forces the persistent tier's pending writes to stable storage,
// if its medium supports it. The local tier has nothing to flush.
func (cd *CachingDictionary[K, V]) Flush() error {
	return cd.persistent.Flush()
}
