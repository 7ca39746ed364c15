//go:build linkedmapof_opt_cachelinesize_128 && !linkedmapof_opt_cachelinesize_32 && !linkedmapof_opt_cachelinesize_64

package om

// CacheLineSize forced to 128 bytes by the build tag.
const CacheLineSize = 128
