//go:build !linkedmapof_opt_cachelinesize_32 && !linkedmapof_opt_cachelinesize_64 && !linkedmapof_opt_cachelinesize_128 && !linkedmapof_opt_cachelinesize_256

package om

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is used to size arena chunks to whole cache lines.
// It's automatically calculated using the `golang.org/x/sys` package.
const CacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})
