package tiered

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Stats is a point-in-time snapshot of a CachingDictionary's hit/miss
// counters and heap usage.
type Stats struct {
	Hits     uint64
	Misses   uint64
	HitRatio float64 // percentage, 0-100

	LocalCount      int
	LocalCapacity   int
	PersistentCount int

	HeapLength     uint64
	AllocatedBytes uint64
	FreeBytes      uint64
}

// String renders Stats with human-readable byte sizes, in the style of
// a one-line log field dump.
func (s Stats) String() string {
	return fmt.Sprintf(
		"hits=%d misses=%d ratio=%.1f%% local=%d/%d persistent=%d heap=%s allocated=%s free=%s",
		s.Hits, s.Misses, s.HitRatio,
		s.LocalCount, s.LocalCapacity, s.PersistentCount,
		humanize.Bytes(s.HeapLength), humanize.Bytes(s.AllocatedBytes), humanize.Bytes(s.FreeBytes),
	)
}
