package tiered

import "sync"

// Locked wraps a CachingDictionary with a single mutex held for the
// duration of every operation (§5). It is the only concurrency adapter
// in scope: per-key locking and TTL-based expiry are explicitly out of
// scope (§9's Non-goals) because neither has a natural place in a
// two-tier dictionary whose tiers may reshuffle entries between
// themselves on any access.
type Locked[K comparable, V any] struct {
	mu   sync.Mutex
	dict *CachingDictionary[K, V]
}

// NewLocked wraps dict for concurrent use.
func NewLocked[K comparable, V any](dict *CachingDictionary[K, V]) *Locked[K, V] {
	return &Locked[K, V]{dict: dict}
}

func (l *Locked[K, V]) Add(key K, value V) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dict.Add(key, value)
}

func (l *Locked[K, V]) Remove(key K) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dict.Remove(key)
}

func (l *Locked[K, V]) Get(key K) (V, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dict.Get(key)
}

func (l *Locked[K, V]) TryGet(key K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dict.TryGet(key)
}

func (l *Locked[K, V]) Set(key K, value V) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dict.Set(key, value)
}

func (l *Locked[K, V]) Contains(key K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dict.Contains(key)
}

func (l *Locked[K, V]) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dict.Count()
}

// Keys calls fn for every key while holding the lock. fn must not call
// back into l.
func (l *Locked[K, V]) Keys(fn func(key K)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dict.Keys(fn)
}

// Entries calls fn with every (key, value) pair while holding the lock.
// fn must not call back into l.
func (l *Locked[K, V]) Entries(fn func(key K, value V)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dict.Entries(fn)
}

func (l *Locked[K, V]) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dict.Clear()
}

func (l *Locked[K, V]) Dispose() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dict.Dispose()
}

func (l *Locked[K, V]) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dict.Flush()
}

// Stats returns a snapshot of the wrapped dictionary's counters.
func (l *Locked[K, V]) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dict.Stats()
}
