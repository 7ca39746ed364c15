//go:build linkedmapof_opt_cachelinesize_64 && !linkedmapof_opt_cachelinesize_32

package om

// CacheLineSize forced to 64 bytes by the build tag.
const CacheLineSize = 64
