package om

import (
	"errors"
	"math/bits"
	"math/rand/v2"
	"unsafe"
)

const (
	// defaultMinTableLen defines the initial and minimum bucket count.
	// WithPresize raises the minimum, never lowers it.
	defaultMinTableLen = 16
	// mapLoadFactor defines the occupancy threshold that triggers a
	// table doubling during insertion.
	mapLoadFactor = 0.70
	// mapShrinkFactor defines the occupancy threshold that triggers a
	// table halving during deletion, down to the minimum bucket count.
	mapShrinkFactor = mapLoadFactor / 4
	// noIdx marks an empty bucket, a terminal link or a missing node.
	noIdx int32 = -1
)

const (
	// chunkTargetBytes is the arena chunk footprint the sizing aims at.
	chunkTargetBytes = 32 * CacheLineSize
	// minChunkLen and maxChunkLen bound the chunk capacity in nodes.
	minChunkLen = 16
	maxChunkLen = 512
)

// ErrNotFound is returned by At for keys that are not in the map.
var ErrNotFound = errors.New("om: key not found")

// node is an arena slot: the entry itself plus its cached hash and the
// intrusive links threading it onto its bucket chain and the map-wide
// order sequence. Free slots are threaded through chainNext; their
// sequence links keep their last values so a walk that just deleted an
// entry can still step off it.
type node[K comparable, V any] struct {
	EntryOf[K, V]
	hash      uintptr
	chainPrev int32
	chainNext int32
	seqPrev   int32
	seqNext   int32
}

// LinkedMapOf is a hash map that preserves a deterministic traversal
// order alongside O(1) average key access.
//
// Every entry is linked into two intrusive lists at once: its hash
// bucket chain and a map-wide order sequence. Lookups, inserts and
// deletes stay O(1) on average, while iteration walks the order
// sequence front to back, most recently inserted entries first,
// regardless of how entries are spread across buckets. Backward walks
// the same sequence oldest first.
//
// Key features of om.LinkedMapOf:
//   - Deterministic iteration order independent of hashing
//   - Entries live in a chunked arena addressed by stable indices;
//     rehashing relinks bucket chains only, so cursors and value
//     pointers survive both growth and shrinkage
//   - Capacity follows occupancy in both directions: the table doubles
//     at high load and halves again once deletions leave it sparse
//   - Implements zero-value usability with lazy initialization
//   - Defaults to Go's built-in hash function, customizable via
//     WithKeyHasher / WithKeyEqual or the IHashCode / IEqual interfaces
//   - Rich extensions such as cursors, batch processing functions,
//     Clone, Merge, and ordered JSON and YAML codecs
//
// A LinkedMapOf must not be copied after first use, and it is not safe
// for concurrent use by multiple goroutines.
type LinkedMapOf[K comparable, V any] struct {
	noCopy noCopy

	chunks    [][]node[K, V] // arena storage; a node's index and address are stable for its lifetime
	buckets   []int32        // chain head per bucket, noIdx when empty; nil until first use
	seqHead   int32          // most recently inserted entry
	seqTail   int32          // oldest entry
	free      int32          // recycled arena slots, threaded through chainNext
	allocated int32          // arena high-water mark
	size      int

	seed     uintptr
	keyHash  hashFunc
	keyEqual equalFunc // nil means the == comparison
	intKey   bool

	minTableLen int  // WithPresize
	growOnly    bool // WithGrowOnly

	chunkShift uint32
	chunkMask  int32

	totalGrowths uint32
	totalShrinks uint32
}

// NewLinkedMapOf creates a new LinkedMapOf instance. Direct
// initialization is also supported.
//
// Parameters:
//   - WithPresize option for initial capacity
//   - WithGrowOnly option to disable shrinking
//   - WithKeyHasher / WithKeyEqual options for custom hashing
func NewLinkedMapOf[K comparable, V any](
	options ...func(*MapConfig),
) *LinkedMapOf[K, V] {
	m := &LinkedMapOf[K, V]{}
	m.Init(options...)
	return m
}

// NewLinkedMapOfWithHasher creates a LinkedMapOf with custom hashing
// and key equality functions.
//
// Parameters:
//   - keyHash: nil uses the built-in hasher
//   - keyEqual: nil uses the built-in comparison; when given, keys that
//     compare equal must hash equal under keyHash
func NewLinkedMapOfWithHasher[K comparable, V any](
	keyHash func(key K, seed uintptr) uintptr,
	keyEqual func(a, b K) bool,
	options ...func(*MapConfig),
) *LinkedMapOf[K, V] {
	m := &LinkedMapOf[K, V]{}
	opts := make([]func(*MapConfig), 0, len(options)+2)
	opts = append(opts, WithKeyHasher(keyHash), WithKeyEqual(keyEqual))
	opts = append(opts, options...)
	m.Init(opts...)
	return m
}

// NewLinkedMapOfFrom creates a LinkedMapOf holding the given entries.
// Entries are inserted front to back, so the first entry becomes the
// oldest in the traversal order; duplicate keys keep the first value.
func NewLinkedMapOfFrom[K comparable, V any](
	entries []EntryOf[K, V],
	options ...func(*MapConfig),
) *LinkedMapOf[K, V] {
	m := NewLinkedMapOf[K, V](options...)
	for i := range entries {
		m.LoadOrStore(entries[i].Key, entries[i].Value)
	}
	return m
}

// NewLinkedMapOfFromSeq creates a LinkedMapOf from a pair sequence in
// the shape All and Backward return. Pairs are inserted in yield
// order, so the first pair yielded becomes the oldest entry; duplicate
// keys keep the first value.
func NewLinkedMapOfFromSeq[K comparable, V any](
	seq func(yield func(K, V) bool),
	options ...func(*MapConfig),
) *LinkedMapOf[K, V] {
	m := NewLinkedMapOf[K, V](options...)
	if seq != nil {
		seq(func(key K, value V) bool {
			m.LoadOrStore(key, value)
			return true
		})
	}
	return m
}

// Init applies options to the LinkedMapOf and allocates its table.
// Key types implementing IHashCode or IEqual are picked up here when
// the corresponding option is absent.
//
// Notes:
//   - Init discards any existing contents and can only be used before
//     the LinkedMapOf is utilized.
//   - If Init is not called, the map initializes itself lazily with
//     the default configuration on first write.
func (m *LinkedMapOf[K, V]) Init(options ...func(*MapConfig)) {
	c := &MapConfig{}
	for _, o := range options {
		o(c)
	}

	// parse interface
	if c.keyHash == nil {
		var zeroK K
		if _, ok := any(&zeroK).(IHashCode); ok {
			c.keyHash = func(ptr unsafe.Pointer, seed uintptr) uintptr {
				return any((*K)(ptr)).(IHashCode).HashCode(seed)
			}
		}
	}
	if c.keyEqual == nil {
		var zeroK K
		if _, ok := any(&zeroK).(IEqual[K]); ok {
			c.keyEqual = func(ptr, other unsafe.Pointer) bool {
				return any((*K)(ptr)).(IEqual[K]).Equal(*(*K)(other))
			}
		}
	}

	m.init(c)
}

func (m *LinkedMapOf[K, V]) init(c *MapConfig) {
	m.seed = uintptr(rand.Uint64())
	m.keyHash, m.intKey = defaultHasher[K]()
	if c.keyHash != nil {
		m.keyHash = c.keyHash
	}
	m.keyEqual = c.keyEqual

	m.minTableLen = calcTableLen(c.sizeHint)
	m.growOnly = c.growOnly

	chunkLen := calcChunkLen(unsafe.Sizeof(node[K, V]{}))
	m.chunkShift = uint32(bits.TrailingZeros(uint(chunkLen)))
	m.chunkMask = int32(chunkLen - 1)

	m.chunks = nil
	m.allocated = 0
	m.size = 0
	m.seqHead, m.seqTail, m.free = noIdx, noIdx, noIdx
	m.buckets = newBucketTable(m.minTableLen)
}

func (m *LinkedMapOf[K, V]) lazyInit() {
	if m.buckets == nil {
		m.Init()
	}
}

// calcTableLen computes the bucket count able to hold sizeHint entries
// below the load factor.
// return value must be a power of 2
func calcTableLen(sizeHint int) int {
	tableLen := defaultMinTableLen
	if float64(sizeHint) > defaultMinTableLen*mapLoadFactor {
		tableLen = nextPowOf2(int(float64(sizeHint) / mapLoadFactor))
	}
	return tableLen
}

// calcChunkLen picks the arena chunk capacity for a node size: a power
// of two spanning roughly chunkTargetBytes, clamped so tiny nodes do
// not balloon chunks and large values do not blow up the first
// allocation.
// return value must be a power of 2
func calcChunkLen(nodeSize uintptr) int {
	chunkLen := nextPowOf2(int(chunkTargetBytes / nodeSize))
	if chunkLen < minChunkLen {
		return minChunkLen
	}
	if chunkLen > maxChunkLen {
		return maxChunkLen
	}
	return chunkLen
}

func newBucketTable(tableLen int) []int32 {
	buckets := make([]int32, tableLen)
	for i := range buckets {
		buckets[i] = noIdx
	}
	return buckets
}

func (m *LinkedMapOf[K, V]) nodeAt(idx int32) *node[K, V] {
	return &m.chunks[idx>>m.chunkShift][idx&m.chunkMask]
}

// alloc returns a free arena slot, reusing recycled slots before
// extending the arena. Existing chunks are never reallocated, so node
// addresses handed out earlier stay valid.
func (m *LinkedMapOf[K, V]) alloc() int32 {
	if m.free != noIdx {
		idx := m.free
		m.free = m.nodeAt(idx).chainNext
		return idx
	}
	idx := m.allocated
	if int(idx)>>m.chunkShift == len(m.chunks) {
		m.chunks = append(m.chunks, make([]node[K, V], 1<<m.chunkShift))
	}
	m.allocated++
	return idx
}

// release returns an unlinked slot to the free list. The key and value
// are zeroed so the slot pins no references; the sequence links are
// left as they were, see node.
func (m *LinkedMapOf[K, V]) release(idx int32) {
	n := m.nodeAt(idx)
	n.EntryOf = EntryOf[K, V]{}
	n.chainNext = m.free
	m.free = idx
}

// find returns the node index for key in its bucket chain, or noIdx.
func (m *LinkedMapOf[K, V]) find(hash uintptr, key *K) int32 {
	if len(m.buckets) == 0 {
		return noIdx
	}
	bidx := bucketIdx(hash, uintptr(len(m.buckets)-1), m.intKey)
	if m.keyEqual == nil {
		for idx := m.buckets[bidx]; idx != noIdx; {
			n := m.nodeAt(idx)
			if n.Key == *key {
				return idx
			}
			idx = n.chainNext
		}
		return noIdx
	}
	for idx := m.buckets[bidx]; idx != noIdx; {
		n := m.nodeAt(idx)
		if m.keyEqual(noescape(unsafe.Pointer(&n.Key)), noescape(unsafe.Pointer(key))) {
			return idx
		}
		idx = n.chainNext
	}
	return noIdx
}

func (m *LinkedMapOf[K, V]) findKey(key *K) int32 {
	if m.buckets == nil {
		return noIdx
	}
	return m.find(m.keyHash(noescape(unsafe.Pointer(key)), m.seed), key)
}

// insert links a fresh node for key at the head of its bucket chain
// and of the order sequence, then re-evaluates the load factor. The
// key must not be present.
func (m *LinkedMapOf[K, V]) insert(hash uintptr, key K, value V) int32 {
	idx := m.alloc()
	n := m.nodeAt(idx)
	n.Key = key
	n.Value = value
	n.hash = hash

	bidx := bucketIdx(hash, uintptr(len(m.buckets)-1), m.intKey)
	head := m.buckets[bidx]
	n.chainPrev = noIdx
	n.chainNext = head
	if head != noIdx {
		m.nodeAt(head).chainPrev = idx
	}
	m.buckets[bidx] = idx

	n.seqPrev = noIdx
	n.seqNext = m.seqHead
	if m.seqHead != noIdx {
		m.nodeAt(m.seqHead).seqPrev = idx
	} else {
		m.seqTail = idx
	}
	m.seqHead = idx

	m.size++
	m.checkGrow()
	return idx
}

// unlink removes the node from its bucket chain and the order
// sequence, recycles its slot and re-evaluates the load factor.
func (m *LinkedMapOf[K, V]) unlink(idx int32) {
	n := m.nodeAt(idx)

	if n.chainPrev != noIdx {
		m.nodeAt(n.chainPrev).chainNext = n.chainNext
	} else {
		bidx := bucketIdx(n.hash, uintptr(len(m.buckets)-1), m.intKey)
		m.buckets[bidx] = n.chainNext
	}
	if n.chainNext != noIdx {
		m.nodeAt(n.chainNext).chainPrev = n.chainPrev
	}

	if n.seqPrev != noIdx {
		m.nodeAt(n.seqPrev).seqNext = n.seqNext
	} else {
		m.seqHead = n.seqNext
	}
	if n.seqNext != noIdx {
		m.nodeAt(n.seqNext).seqPrev = n.seqPrev
	} else {
		m.seqTail = n.seqPrev
	}

	m.release(idx)
	m.size--
	m.checkShrink()
}

// checkGrow doubles the table once insertion pushes occupancy to
// mapLoadFactor.
func (m *LinkedMapOf[K, V]) checkGrow() {
	tableLen := len(m.buckets)
	if float64(m.size)/float64(tableLen) >= mapLoadFactor {
		m.totalGrowths++
		m.rehash(tableLen << 1)
	}
}

// checkShrink halves the table once deletion drops occupancy to
// mapShrinkFactor, stopping at the minimum bucket count.
func (m *LinkedMapOf[K, V]) checkShrink() {
	tableLen := len(m.buckets)
	if !m.growOnly && tableLen > m.minTableLen &&
		float64(m.size)/float64(tableLen) <= mapShrinkFactor {
		m.totalShrinks++
		m.rehash(tableLen >> 1)
	}
}

// rehash relinks every bucket chain into a fresh table of newLen
// buckets by walking the order sequence. Sequence links, node indices
// and node addresses are untouched, so cursors, entry pointers and the
// traversal order all survive.
func (m *LinkedMapOf[K, V]) rehash(newLen int) {
	buckets := newBucketTable(newLen)
	mask := uintptr(newLen - 1)
	for idx := m.seqHead; idx != noIdx; {
		n := m.nodeAt(idx)
		bidx := bucketIdx(n.hash, mask, m.intKey)
		head := buckets[bidx]
		n.chainPrev = noIdx
		n.chainNext = head
		if head != noIdx {
			m.nodeAt(head).chainPrev = idx
		}
		buckets[bidx] = idx
		idx = n.seqNext
	}
	m.buckets = buckets
}

// Load retrieves a value for a key, compatible with `sync.Map`.
func (m *LinkedMapOf[K, V]) Load(key K) (value V, ok bool) {
	if m.buckets == nil {
		return
	}
	hash := m.keyHash(noescape(unsafe.Pointer(&key)), m.seed)
	idx := m.find(hash, &key)
	if idx == noIdx {
		return
	}
	return m.nodeAt(idx).Value, true
}

// At returns the value for a key, or ErrNotFound when the key is
// absent. It is the demand-lookup counterpart of Load for callers that
// thread errors instead of booleans.
func (m *LinkedMapOf[K, V]) At(key K) (V, error) {
	value, ok := m.Load(key)
	if !ok {
		return value, ErrNotFound
	}
	return value, nil
}

// Store sets the value for a key, compatible with `sync.Map`.
// Storing over an existing key replaces the value in place and keeps
// the entry's position in the traversal order.
func (m *LinkedMapOf[K, V]) Store(key K, value V) {
	m.lazyInit()
	hash := m.keyHash(noescape(unsafe.Pointer(&key)), m.seed)
	if idx := m.find(hash, &key); idx != noIdx {
		m.nodeAt(idx).Value = value
		return
	}
	m.insert(hash, key, value)
}

// Swap stores value for key and returns the previous value if any,
// compatible with `sync.Map`. Like Store it never moves an existing
// entry in the traversal order.
func (m *LinkedMapOf[K, V]) Swap(key K, value V) (previous V, loaded bool) {
	m.lazyInit()
	hash := m.keyHash(noescape(unsafe.Pointer(&key)), m.seed)
	if idx := m.find(hash, &key); idx != noIdx {
		n := m.nodeAt(idx)
		previous = n.Value
		n.Value = value
		return previous, true
	}
	m.insert(hash, key, value)
	return
}

// LoadOrStore returns the existing value for the key if present,
// otherwise it stores and returns the given value. The loaded result
// is true if the value was loaded. An existing entry keeps both its
// value and its position in the traversal order.
//
// Compatible with `sync.Map`.
func (m *LinkedMapOf[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	m.lazyInit()
	hash := m.keyHash(noescape(unsafe.Pointer(&key)), m.seed)
	if idx := m.find(hash, &key); idx != noIdx {
		return m.nodeAt(idx).Value, true
	}
	m.insert(hash, key, value)
	return value, false
}

// Delete deletes the value for a key, compatible with `sync.Map`.
// Deleting a missing key is a no-op.
func (m *LinkedMapOf[K, V]) Delete(key K) {
	if m.buckets == nil {
		return
	}
	hash := m.keyHash(noescape(unsafe.Pointer(&key)), m.seed)
	if idx := m.find(hash, &key); idx != noIdx {
		m.unlink(idx)
	}
}

// LoadAndDelete deletes the value for a key, returning the previous
// value if any. The loaded result reports whether the key was present.
//
// Compatible with `sync.Map`.
func (m *LinkedMapOf[K, V]) LoadAndDelete(key K) (value V, loaded bool) {
	if m.buckets == nil {
		return
	}
	hash := m.keyHash(noescape(unsafe.Pointer(&key)), m.seed)
	if idx := m.find(hash, &key); idx != noIdx {
		value = m.nodeAt(idx).Value
		m.unlink(idx)
		return value, true
	}
	return
}

// Ref returns a pointer to the value stored for key, inserting the
// zero value first when the key is absent. The pointer stays valid
// until the key is deleted or the map is cleared; rehashing never
// moves entries.
func (m *LinkedMapOf[K, V]) Ref(key K) *V {
	m.lazyInit()
	hash := m.keyHash(noescape(unsafe.Pointer(&key)), m.seed)
	idx := m.find(hash, &key)
	if idx == noIdx {
		var zero V
		idx = m.insert(hash, key, zero)
	}
	return &m.nodeAt(idx).Value
}

// Value returns the value stored for key, or the zero value when the
// key is absent. Unlike Ref it never inserts.
func (m *LinkedMapOf[K, V]) Value(key K) V {
	value, _ := m.Load(key)
	return value
}

// HasKey to check if the key exist
func (m *LinkedMapOf[K, V]) HasKey(key K) bool {
	return m.findKey(&key) != noIdx
}

// Clear deletes all keys, releases the arena and resets the table back
// to the minimum capacity. All cursors, entry pointers and value
// pointers become invalid.
func (m *LinkedMapOf[K, V]) Clear() {
	if m.buckets == nil {
		return
	}
	m.chunks = nil
	m.allocated = 0
	m.size = 0
	m.seqHead, m.seqTail, m.free = noIdx, noIdx, noIdx
	m.buckets = newBucketTable(m.minTableLen)
}

// Size returns the number of key-value pairs in the map.
// This is an O(1) operation.
func (m *LinkedMapOf[K, V]) Size() int {
	return m.size
}

// IsZero checks zero values, faster than Size().
func (m *LinkedMapOf[K, V]) IsZero() bool {
	return m.size == 0
}

// Hasher returns the hash function in use, in the shape WithKeyHasher
// accepts, so one map's hasher can configure another.
func (m *LinkedMapOf[K, V]) Hasher() func(key K, seed uintptr) uintptr {
	m.lazyInit()
	keyHash := m.keyHash
	return func(key K, seed uintptr) uintptr {
		return keyHash(noescape(unsafe.Pointer(&key)), seed)
	}
}
