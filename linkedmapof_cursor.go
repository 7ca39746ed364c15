package om

// Cursor is a lightweight handle to an entry's position in the
// traversal order. Cursors are comparable: two cursors are equal when
// they reference the same entry of the same map, and terminal cursors
// of the same map are equal to each other. The zero Cursor is
// terminal.
//
// A cursor stays valid across value updates, inserts, deletes of other
// entries and rehashes. Deleting the referenced entry, or clearing the
// map, invalidates the cursor; using an invalidated cursor is
// undefined because its slot may be recycled by a later insert.
type Cursor[K comparable, V any] struct {
	m   *LinkedMapOf[K, V]
	idx int32
}

// Ok reports whether the cursor references an entry.
func (c Cursor[K, V]) Ok() bool {
	return c.m != nil && c.idx != noIdx
}

// Next returns the cursor one step toward the tail, at the next older
// entry, or a terminal cursor past the end of the sequence.
func (c Cursor[K, V]) Next() Cursor[K, V] {
	if !c.Ok() {
		return Cursor[K, V]{m: c.m, idx: noIdx}
	}
	return Cursor[K, V]{m: c.m, idx: c.m.nodeAt(c.idx).seqNext}
}

// Prev returns the cursor one step toward the head, at the next newer
// entry, or a terminal cursor past the start of the sequence.
func (c Cursor[K, V]) Prev() Cursor[K, V] {
	if !c.Ok() {
		return Cursor[K, V]{m: c.m, idx: noIdx}
	}
	return Cursor[K, V]{m: c.m, idx: c.m.nodeAt(c.idx).seqPrev}
}

// Key returns the referenced entry's key. The cursor must not be
// terminal.
func (c Cursor[K, V]) Key() K {
	return c.m.nodeAt(c.idx).Key
}

// Value returns the referenced entry's value. The cursor must not be
// terminal.
func (c Cursor[K, V]) Value() V {
	return c.m.nodeAt(c.idx).Value
}

// SetValue replaces the referenced entry's value, leaving its key and
// order position untouched. The cursor must not be terminal.
func (c Cursor[K, V]) SetValue(value V) {
	c.m.nodeAt(c.idx).Value = value
}

// Head returns a cursor at the most recently inserted entry, terminal
// when the map is empty.
func (m *LinkedMapOf[K, V]) Head() Cursor[K, V] {
	if m.buckets == nil {
		return Cursor[K, V]{m: m, idx: noIdx}
	}
	return Cursor[K, V]{m: m, idx: m.seqHead}
}

// Tail returns a cursor at the oldest entry, terminal when the map is
// empty.
func (m *LinkedMapOf[K, V]) Tail() Cursor[K, V] {
	if m.buckets == nil {
		return Cursor[K, V]{m: m, idx: noIdx}
	}
	return Cursor[K, V]{m: m, idx: m.seqTail}
}

// Find returns a cursor at the entry for key, terminal when the key is
// absent.
func (m *LinkedMapOf[K, V]) Find(key K) Cursor[K, V] {
	return Cursor[K, V]{m: m, idx: m.findKey(&key)}
}

// RangeEntry iterates over all entries in traversal order, most
// recently inserted first. The entry pointer is a direct view into the
// map: writing e.Value edits the entry in place, while e.Key must
// never be modified.
//
// Inside yield it is safe to update values, delete the yielded entry,
// and insert or delete other entries; the walk continues over what
// remains. Entries inserted inside yield land at the head, behind the
// walk, and are not visited. The one unsupported combination is
// deleting the yielded entry and then mutating the map further within
// the same yield call.
func (m *LinkedMapOf[K, V]) RangeEntry(yield func(e *EntryOf[K, V]) bool) {
	if m.buckets == nil {
		return
	}
	for idx := m.seqHead; idx != noIdx; {
		n := m.nodeAt(idx)
		if !yield(&n.EntryOf) {
			return
		}
		idx = n.seqNext
	}
}

// rangeEntryBackward is RangeEntry tail to head: chronological order,
// oldest entry first. Same mutation contract as RangeEntry, except
// that entries inserted inside yield sit at the head and are still
// visited when the walk gets there.
func (m *LinkedMapOf[K, V]) rangeEntryBackward(yield func(e *EntryOf[K, V]) bool) {
	if m.buckets == nil {
		return
	}
	for idx := m.seqTail; idx != noIdx; {
		n := m.nodeAt(idx)
		if !yield(&n.EntryOf) {
			return
		}
		idx = n.seqPrev
	}
}

// Range calls yield sequentially for each key and value present in the
// map, most recently inserted first. If yield returns false, Range
// stops the iteration.
//
// Compatible with `sync.Map`; see RangeEntry for the in-flight
// mutation contract.
func (m *LinkedMapOf[K, V]) Range(yield func(key K, value V) bool) {
	m.RangeEntry(func(e *EntryOf[K, V]) bool {
		return yield(e.Key, e.Value)
	})
}

// RangeKeys to iterate over all keys, most recently inserted first.
func (m *LinkedMapOf[K, V]) RangeKeys(yield func(key K) bool) {
	m.RangeEntry(func(e *EntryOf[K, V]) bool {
		return yield(e.Key)
	})
}

// RangeValues to iterate over all values, most recently inserted first.
func (m *LinkedMapOf[K, V]) RangeValues(yield func(value V) bool) {
	m.RangeEntry(func(e *EntryOf[K, V]) bool {
		return yield(e.Value)
	})
}

// RangeBackward calls yield for each key and value in chronological
// order, oldest entry first.
func (m *LinkedMapOf[K, V]) RangeBackward(yield func(key K, value V) bool) {
	m.rangeEntryBackward(func(e *EntryOf[K, V]) bool {
		return yield(e.Key, e.Value)
	})
}

// All is the iterator form of Range, usable directly in a range
// statement on Go 1.23 and later.
func (m *LinkedMapOf[K, V]) All() func(yield func(K, V) bool) {
	return m.Range
}

// Keys is the iterator version for iterating over all keys.
func (m *LinkedMapOf[K, V]) Keys() func(yield func(K) bool) {
	return m.RangeKeys
}

// Values is the iterator version for iterating over all values.
func (m *LinkedMapOf[K, V]) Values() func(yield func(V) bool) {
	return m.RangeValues
}

// Backward is the iterator form of RangeBackward: chronological order,
// oldest entry first.
func (m *LinkedMapOf[K, V]) Backward() func(yield func(K, V) bool) {
	return m.RangeBackward
}
