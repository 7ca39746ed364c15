//go:build linkedmapof_opt_cachelinesize_256 && !linkedmapof_opt_cachelinesize_32 && !linkedmapof_opt_cachelinesize_64 && !linkedmapof_opt_cachelinesize_128

package om

// CacheLineSize forced to 256 bytes by the build tag.
const CacheLineSize = 256
