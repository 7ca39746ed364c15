package om

import (
	"fmt"
	"math"
	"strings"
)

// Stats returns statistics for the LinkedMapOf. It walks the whole
// bucket table, so it should be used only for diagnostics or debugging
// purposes.
func (m *LinkedMapOf[K, V]) Stats() *MapStats {
	stats := &MapStats{
		TotalGrowths: m.totalGrowths,
		TotalShrinks: m.totalShrinks,
	}
	if m.buckets == nil {
		return stats
	}
	stats.Capacity = len(m.buckets)
	stats.Size = m.size
	stats.Chunks = len(m.chunks)
	for idx := m.free; idx != noIdx; idx = m.nodeAt(idx).chainNext {
		stats.FreeSlots++
	}
	stats.MinChain = math.MaxInt
	for i := range m.buckets {
		chain := 0
		for idx := m.buckets[i]; idx != noIdx; idx = m.nodeAt(idx).chainNext {
			chain++
		}
		if chain == 0 {
			stats.EmptyBuckets++
		}
		if chain < stats.MinChain {
			stats.MinChain = chain
		}
		if chain > stats.MaxChain {
			stats.MaxChain = chain
		}
	}
	return stats
}

// MapStats is LinkedMapOf statistics.
//
// Warning: map statistics are intended to be used for diagnostic
// purposes, not for production code. This means that breaking changes
// may be introduced into this struct even between minor releases.
type MapStats struct {
	// Capacity is the length of the bucket table, the denominator of
	// the load factor.
	Capacity int
	// Size is the exact number of entries stored in the map.
	Size int
	// EmptyBuckets is the number of buckets that hold no entries.
	EmptyBuckets int
	// MinChain is the minimum number of entries in a bucket chain.
	MinChain int
	// MaxChain is the maximum number of entries in a bucket chain.
	MaxChain int
	// Chunks is the number of arena chunks backing the entries.
	Chunks int
	// FreeSlots is the number of recycled arena slots awaiting reuse.
	FreeSlots int
	// TotalGrowths is the number of times the hash table grew.
	TotalGrowths uint32
	// TotalShrinks is the number of times the hash table shrinked.
	TotalShrinks uint32
}

// ToString returns string representation of map stats.
func (s *MapStats) ToString() string {
	var sb strings.Builder
	sb.WriteString("MapStats{\n")
	sb.WriteString(fmt.Sprintf("Capacity:     %d\n", s.Capacity))
	sb.WriteString(fmt.Sprintf("Size:         %d\n", s.Size))
	sb.WriteString(fmt.Sprintf("EmptyBuckets: %d\n", s.EmptyBuckets))
	sb.WriteString(fmt.Sprintf("MinChain:     %d\n", s.MinChain))
	sb.WriteString(fmt.Sprintf("MaxChain:     %d\n", s.MaxChain))
	sb.WriteString(fmt.Sprintf("Chunks:       %d\n", s.Chunks))
	sb.WriteString(fmt.Sprintf("FreeSlots:    %d\n", s.FreeSlots))
	sb.WriteString(fmt.Sprintf("TotalGrowths: %d\n", s.TotalGrowths))
	sb.WriteString(fmt.Sprintf("TotalShrinks: %d\n", s.TotalShrinks))
	sb.WriteString("}\n")
	return sb.String()
}
