package om

import "unsafe"

// EntryOf is a key-value pair used by the batch and constructor APIs
// and yielded by RangeEntry.
type EntryOf[K comparable, V any] struct {
	Key   K
	Value V
}

// IHashCode lets a key type carry its own hash function. Keys (or key
// pointers) implementing it are picked up automatically when no
// WithKeyHasher option is given.
type IHashCode interface {
	HashCode(seed uintptr) uintptr
}

// IEqual lets a key type carry its own equality predicate, picked up
// automatically when no WithKeyEqual option is given.
//
// Callers supplying either capability own their consistency: keys that
// compare equal must produce equal hashes.
type IEqual[T any] interface {
	Equal(other T) bool
}

// MapConfig defines configurable LinkedMapOf options.
type MapConfig struct {
	sizeHint int
	growOnly bool
	keyHash  hashFunc
	keyEqual equalFunc
}

// WithPresize configures new LinkedMapOf instance with capacity enough
// to hold sizeHint entries. The capacity is treated as the minimal
// capacity meaning that the underlying hash table will never shrink
// to a smaller capacity. If sizeHint is zero or negative, the value
// is ignored.
func WithPresize(sizeHint int) func(*MapConfig) {
	return func(c *MapConfig) {
		c.sizeHint = sizeHint
	}
}

// WithGrowOnly configures new LinkedMapOf instance to be grow-only.
// This means that the underlying hash table grows in capacity when
// new keys are added, but does not shrink when keys are deleted.
// The only exception to this rule is the Clear method which
// shrinks the hash table back to the initial capacity.
func WithGrowOnly() func(*MapConfig) {
	return func(c *MapConfig) {
		c.growOnly = true
	}
}

// WithKeyHasher configures a custom hash function for keys.
// The key type of the hasher must be the map's key type; a nil keyHash
// keeps the built-in hasher.
func WithKeyHasher[K comparable](keyHash func(key K, seed uintptr) uintptr) func(*MapConfig) {
	return func(c *MapConfig) {
		if keyHash != nil {
			c.keyHash = func(ptr unsafe.Pointer, seed uintptr) uintptr {
				return keyHash(*(*K)(ptr), seed)
			}
		}
	}
}

// WithKeyEqual configures a custom equality predicate for keys,
// replacing the == comparison. The key type of the predicate must be
// the map's key type; a nil keyEqual keeps the built-in comparison.
// Keys that compare equal under the predicate must hash equal under
// the active hasher.
func WithKeyEqual[K comparable](keyEqual func(a, b K) bool) func(*MapConfig) {
	return func(c *MapConfig) {
		if keyEqual != nil {
			c.keyEqual = func(ptr, other unsafe.Pointer) bool {
				return keyEqual(*(*K)(ptr), *(*K)(other))
			}
		}
	}
}
