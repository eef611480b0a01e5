package guardango

import (
	"sync"
)

// SyncMap is a synchronized map that can be accessed concurrently.
//
// It is used for chat-wide data that is rarely written, such as [models.GroupSettings].
// Per-user keyspaces use [xsync.MapOf] instead so that writers on different users do not contend.
type SyncMap[K comparable, V any] struct {
	sync.RWMutex
	M map[K]V
}

// Get retrieves the value associated with the specified key from the SyncMap.
//
// Returns:
//   - V: The value associated with the key.
//   - bool: True if the key exists in the map, false otherwise.
func (sm *SyncMap[K, V]) Get(key K) (val V, ok bool) {
	sm.RLock()
	defer sm.RUnlock()

	val, ok = sm.M[key]

	return
}

// Update replaces the value of key with the result of fun, atomically with respect to other writers.
//
// The function receives the current value and whether it existed.
func (sm *SyncMap[K, V]) Update(key K, fun func(V, bool) V) V {
	sm.Lock()
	defer sm.Unlock()

	old, ok := sm.M[key]
	val := fun(old, ok)
	sm.M[key] = val

	return val
}

// NewSyncMap creates a new instance of SyncMap.
func NewSyncMap[K comparable, V any]() SyncMap[K, V] {
	return SyncMap[K, V]{M: map[K]V{}}
}

// Entry is a key-value pair copied out of an [OrderedSyncMap].
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// OrderedSyncMap is a synchronized map that maintains the insertion order of keys.
type OrderedSyncMap[K comparable, V any] struct {
	sync.RWMutex
	K []K
	M map[K]V
}

// SetIfAbsent adds the key-value pair only if the key is not present.
//
// Returns:
//   - V: The value stored under the key after the call.
//   - bool: True if the value was inserted by this call.
func (sm *OrderedSyncMap[K, V]) SetIfAbsent(key K, val V) (V, bool) {
	sm.Lock()
	defer sm.Unlock()

	if old, ok := sm.M[key]; ok {
		return old, false
	}

	sm.K = append(sm.K, key)
	sm.M[key] = val

	return val, true
}

// Get retrieves the value associated with the specified key.
func (sm *OrderedSyncMap[K, V]) Get(key K) (val V, ok bool) {
	sm.RLock()
	defer sm.RUnlock()

	val, ok = sm.M[key]

	return
}

// Len returns the number of key-value pairs.
func (sm *OrderedSyncMap[K, V]) Len() int {
	sm.RLock()
	defer sm.RUnlock()

	return len(sm.M)
}

// Range iterates over each key-value pair in insertion order.
//
// The read lock is held for the whole iteration; use [OrderedSyncMap.Snapshot] when
// the callback may be slow or may write to the map.
func (sm *OrderedSyncMap[K, V]) Range(fun func(K, V) bool) {
	sm.RLock()
	defer sm.RUnlock()

	for _, k := range sm.K {
		if !fun(k, sm.M[k]) {
			return
		}
	}
}

// Snapshot copies the entries in insertion order.
// Later writes to the map are not visible in the returned slice.
func (sm *OrderedSyncMap[K, V]) Snapshot() []Entry[K, V] {
	sm.RLock()
	defer sm.RUnlock()

	entries := make([]Entry[K, V], len(sm.K))
	for i, k := range sm.K {
		entries[i] = Entry[K, V]{Key: k, Value: sm.M[k]}
	}

	return entries
}

// NewOrderedSyncMap creates a new instance of OrderedSyncMap.
func NewOrderedSyncMap[K comparable, V any]() OrderedSyncMap[K, V] {
	return OrderedSyncMap[K, V]{K: []K{}, M: map[K]V{}}
}
