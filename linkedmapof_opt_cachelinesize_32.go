//go:build linkedmapof_opt_cachelinesize_32

package om

// CacheLineSize forced to 32 bytes by the build tag.
const CacheLineSize = 32
