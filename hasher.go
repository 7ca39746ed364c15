package om

import (
	"math/bits"
	"unsafe"
)

type hashFunc func(unsafe.Pointer, uintptr) uintptr
type equalFunc func(unsafe.Pointer, unsafe.Pointer) bool

// defaultHasher returns the hash function for K and whether K is an
// integer kind. Integer keys hash to themselves, which keeps sequential
// keys perfectly spread across a power-of-two table; every other kind
// falls back to Go's built-in hasher.
func defaultHasher[K comparable]() (keyHash hashFunc, intKey bool) {
	keyHash = defaultHasherUsingBuiltIn[K]()

	switch any(*new(K)).(type) {
	case uint, int, uintptr:
		return func(value unsafe.Pointer, seed uintptr) uintptr {
			return *(*uintptr)(value)
		}, true

	case uint64, int64:
		if bits.UintSize == 32 {
			return func(value unsafe.Pointer, seed uintptr) uintptr {
				v := *(*uint64)(value)
				return uintptr(v) ^ uintptr(v>>32)
			}, true
		}

		return func(value unsafe.Pointer, seed uintptr) uintptr {
			return uintptr(*(*uint64)(value))
		}, true

	case uint32, int32:
		return func(value unsafe.Pointer, seed uintptr) uintptr {
			return uintptr(*(*uint32)(value))
		}, true

	case uint16, int16:
		return func(value unsafe.Pointer, seed uintptr) uintptr {
			return uintptr(*(*uint16)(value))
		}, true

	case uint8, int8:
		return func(value unsafe.Pointer, seed uintptr) uintptr {
			return uintptr(*(*uint8)(value))
		}, true

	default:
		return keyHash, false
	}
}

// defaultHasherUsingBuiltIn obtains Go's built-in hash function for the
// key type using the runtime map type descriptor.
//
// This approach provides direct access to the type-specific function without
// the overhead of switch statements, resulting in better performance.
//
// Notes:
//   - This implementation relies on Go's internal type representation
//   - It should be verified for compatibility with each Go version upgrade
func defaultHasherUsingBuiltIn[K comparable]() hashFunc {
	var m map[K]struct{}
	return iTypeOf(m).MapType().Hasher
}

// spread improves hash distribution by XORing the original hash with its high bits.
// This function increases randomness in the lower bits of the hash value,
// which helps reduce collisions when calculating bucket indices.
func spread(h uintptr) uintptr {
	return h ^ (h >> 16)
}

// bucketIdx derives the chain index for a hash at the given table mask.
// Integer keys hash to themselves, so their low bits are already uniform;
// other hashes fold their high bits in first to keep short masks fed
// with the full hash entropy.
func bucketIdx(h, mask uintptr, intKey bool) uintptr {
	if intKey {
		return h & mask
	}
	return spread(h) & mask
}

type iTFlag uint8
type iKind uint8
type iNameOff int32

// iTypeOff is the offset to a type from moduledata.types. See resolveTypeOff in runtime.
type iTypeOff int32

type iType struct {
	Size_       uintptr
	PtrBytes    uintptr // number of (prefix) bytes in the type that can contain pointers
	Hash        uint32  // hash of type; avoids computation in hash tables
	TFlag       iTFlag  // extra type information flags
	Align_      uint8   // alignment of variable with this type
	FieldAlign_ uint8   // alignment of struct field with this type
	Kind_       iKind   // enumeration for C
	// function for comparing objects of this type
	// (ptr to object A, ptr to object B) -> ==?
	Equal func(unsafe.Pointer, unsafe.Pointer) bool
	// GCData stores the GC type data for the garbage collector.
	GCData    *byte
	Str       iNameOff // string form
	PtrToThis iTypeOff // type for pointer to this type, may be zero
}

func (t *iType) MapType() *iMapType {
	return (*iMapType)(unsafe.Pointer(t))
}

type iMapType struct {
	iType
	Key   *iType
	Elem  *iType
	Group *iType // internal type representing a slot group
	// function for hashing keys (ptr to key, seed) -> hash
	Hasher func(unsafe.Pointer, uintptr) uintptr
}

func iTypeOf(a any) *iType {
	eface := *(*iEmptyInterface)(unsafe.Pointer(&a))
	// Types are either static (for compiler-created types) or
	// heap-allocated but always reachable (for reflection-created
	// types, held in the central map). So there is no need to
	// escape types. noescape here help avoid unnecessary escape
	// of v.
	return (*iType)(noescape(unsafe.Pointer(eface.Type)))
}

type iEmptyInterface struct {
	Type *iType
	Data unsafe.Pointer
}
