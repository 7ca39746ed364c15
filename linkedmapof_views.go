package om

import (
	"fmt"
	"math"
	"strings"
	"unsafe"
)

// ToMap collect all entries and return a map[K]V
func (m *LinkedMapOf[K, V]) ToMap() map[K]V {
	a := make(map[K]V, m.Size())
	m.RangeEntry(func(e *EntryOf[K, V]) bool {
		a[e.Key] = e.Value
		return true
	})
	return a
}

// ToMapWithLimit collect up to limit entries into a map[K]V, limit < 0 is no limit.
// Entries are taken from the head of the traversal order, newest first.
func (m *LinkedMapOf[K, V]) ToMapWithLimit(limit int) map[K]V {
	if limit == 0 {
		return map[K]V{}
	}
	if limit < 0 {
		limit = math.MaxInt
	}
	a := make(map[K]V, min(m.Size(), limit))
	m.RangeEntry(func(e *EntryOf[K, V]) bool {
		a[e.Key] = e.Value
		limit--
		return limit > 0
	})
	return a
}

// FromMap imports key-value pairs from a standard Go map.
// Existing keys are overwritten in place; new keys are appended in the
// source map's range order, which Go randomizes.
//
// Parameters:
//   - source: standard Go map to import from
func (m *LinkedMapOf[K, V]) FromMap(source map[K]V) {
	if len(source) == 0 {
		return
	}
	for k, v := range source {
		m.Store(k, v)
	}
}

// BatchUpsert batch updates or inserts multiple key-value pairs,
// returning previous values. Existing entries keep their position in
// the traversal order.
//
// Parameters:
//   - entries: slice of key-value pairs to upsert
//
// Returns:
//   - previous: slice of previous values for each key
//   - loaded: slice of booleans indicating whether each key existed before
func (m *LinkedMapOf[K, V]) BatchUpsert(entries []EntryOf[K, V]) (previous []V, loaded []bool) {
	previous = make([]V, len(entries))
	loaded = make([]bool, len(entries))
	for i := range entries {
		previous[i], loaded[i] = m.Swap(entries[i].Key, entries[i].Value)
	}
	return
}

// BatchInsert batch inserts multiple key-value pairs, not modifying existing keys
//
// Parameters:
//   - entries: slice of key-value pairs to insert
//
// Returns:
//   - actual: slice of actual values for each key (either existing or newly inserted)
//   - loaded: slice of booleans indicating whether each key existed before
func (m *LinkedMapOf[K, V]) BatchInsert(entries []EntryOf[K, V]) (actual []V, loaded []bool) {
	actual = make([]V, len(entries))
	loaded = make([]bool, len(entries))
	for i := range entries {
		actual[i], loaded[i] = m.LoadOrStore(entries[i].Key, entries[i].Value)
	}
	return
}

// BatchDelete batch deletes multiple keys, returning previous values
//
// Parameters:
//   - keys: slice of keys to delete
//
// Returns:
//   - previous: slice of previous values for each key
//   - loaded: slice of booleans indicating whether each key existed before
func (m *LinkedMapOf[K, V]) BatchDelete(keys []K) (previous []V, loaded []bool) {
	previous = make([]V, len(keys))
	loaded = make([]bool, len(keys))
	for i := range keys {
		previous[i], loaded[i] = m.LoadAndDelete(keys[i])
	}
	return
}

// BatchUpdate batch updates multiple existing keys, returning previous
// values. Keys not present are skipped, never inserted.
//
// Parameters:
//   - entries: slice of key-value pairs to update
//
// Returns:
//   - previous: slice of previous values for each key
//   - loaded: slice of booleans indicating whether each key existed before
func (m *LinkedMapOf[K, V]) BatchUpdate(entries []EntryOf[K, V]) (previous []V, loaded []bool) {
	previous = make([]V, len(entries))
	loaded = make([]bool, len(entries))
	if m.buckets == nil {
		return
	}
	for i := range entries {
		e := &entries[i]
		if idx := m.findKey(&e.Key); idx != noIdx {
			n := m.nodeAt(idx)
			previous[i], loaded[i] = n.Value, true
			n.Value = e.Value
		}
	}
	return
}

// FilterAndTransform filters and transforms elements in the map
//
// Parameters:
//   - filterFn: returns true to keep the element, false to remove it
//   - transformFn: transforms values of kept elements, returns new value and whether store is needed
//     if nil, only filtering is performed
func (m *LinkedMapOf[K, V]) FilterAndTransform(
	filterFn func(key K, value V) bool,
	transformFn func(key K, value V) (V, bool),
) {
	if m.buckets == nil {
		return
	}

	var toDelete []K
	m.RangeEntry(func(e *EntryOf[K, V]) bool {
		if !filterFn(e.Key, e.Value) {
			toDelete = append(toDelete, e.Key)
		} else if transformFn != nil {
			if newValue, needStore := transformFn(e.Key, e.Value); needStore {
				e.Value = newValue
			}
		}
		return true
	})

	if len(toDelete) > 0 {
		m.BatchDelete(toDelete)
	}
}

// Merge integrates another LinkedMapOf into the current one.
// Keys present only in other are appended as fresh inserts, preserving
// other's relative order; keys present in both are resolved in place by
// conflictFn, keeping the current entry's position. Only the resolved
// entry's Value is adopted.
//
// Parameters:
//   - other: the LinkedMapOf to merge from
//   - conflictFn: conflict resolution function called when a key exists in both maps
//     if nil, values from other map override current map values
func (m *LinkedMapOf[K, V]) Merge(
	other *LinkedMapOf[K, V],
	conflictFn func(this, other *EntryOf[K, V]) *EntryOf[K, V],
) {
	if other == nil || other.IsZero() {
		return
	}

	// Default conflict handler: use value from other map
	if conflictFn == nil {
		conflictFn = func(_, other *EntryOf[K, V]) *EntryOf[K, V] {
			return other
		}
	}

	m.lazyInit()
	other.rangeEntryBackward(func(e *EntryOf[K, V]) bool {
		hash := m.keyHash(noescape(unsafe.Pointer(&e.Key)), m.seed)
		if idx := m.find(hash, &e.Key); idx != noIdx {
			n := m.nodeAt(idx)
			n.Value = conflictFn(&n.EntryOf, e).Value
		} else {
			m.insert(hash, e.Key, e.Value)
		}
		return true
	})
}

// Clone creates a deep copy of the map, preserving both the
// configuration and the traversal order.
//
// Returns:
//   - A new LinkedMapOf instance with the same key-value pairs.
func (m *LinkedMapOf[K, V]) Clone() *LinkedMapOf[K, V] {
	clone := &LinkedMapOf[K, V]{}
	if m.buckets == nil {
		return clone
	}

	clone.seed = m.seed
	clone.keyHash = m.keyHash
	clone.keyEqual = m.keyEqual
	clone.intKey = m.intKey
	clone.minTableLen = m.minTableLen
	clone.growOnly = m.growOnly
	clone.chunkShift = m.chunkShift
	clone.chunkMask = m.chunkMask
	clone.seqHead, clone.seqTail, clone.free = noIdx, noIdx, noIdx

	// Presize for the current contents to skip intermediate growth.
	tableLen := calcTableLen(m.size)
	if tableLen < m.minTableLen {
		tableLen = m.minTableLen
	}
	clone.buckets = newBucketTable(tableLen)

	m.rangeEntryBackward(func(e *EntryOf[K, V]) bool {
		hash := clone.keyHash(noescape(unsafe.Pointer(&e.Key)), clone.seed)
		clone.insert(hash, e.Key, e.Value)
		return true
	})
	return clone
}

// String implement the formatting output interface fmt.Stringer.
// Entries render in traversal order, newest first, up to a fixed limit.
func (m *LinkedMapOf[K, V]) String() string {
	const limit = 1024
	var sb strings.Builder
	sb.WriteString("LinkedMapOf[")
	n := 0
	m.Range(func(key K, value V) bool {
		if n > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%v:%v", key, value)
		n++
		return n < limit
	})
	sb.WriteByte(']')
	return sb.String()
}
