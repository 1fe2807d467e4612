package mcode

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats is a point-in-time snapshot of pool occupancy and lifetime
// counters.
type Stats struct {
	PoolBytes  int
	BlockBytes int
	Blocks     int

	UsedBlocks     int
	FreeBlocks     int
	UsedBytes      int
	FreeBytes      int
	LargestFreeRun int // blocks

	Acquires       uint64
	Releases       uint64
	Exhaustions    uint64
	ProtectFails   uint64
	DoubleReleases uint64
}

// Stats scans the occupancy map under the lock and returns a snapshot.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	used := p.usedLocked()
	s := Stats{
		PoolBytes:      p.size,
		BlockBytes:     BlockSize,
		Blocks:         len(p.blocks),
		UsedBlocks:     used,
		FreeBlocks:     len(p.blocks) - used,
		UsedBytes:      used * BlockSize,
		FreeBytes:      (len(p.blocks) - used) * BlockSize,
		LargestFreeRun: p.largestRunLocked(),
		Acquires:       p.acquires,
		Releases:       p.releases,
		Exhaustions:    p.exhaustions,
		ProtectFails:   p.protectFails,
		DoubleReleases: p.doubleReleases,
	}
	return s
}

// Snapshot returns a copy of the occupancy map, true for granted blocks.
// Index i covers the block at Base()+i*BlockSize.
func (p *Pool) Snapshot() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]bool, len(p.blocks))
	copy(out, p.blocks)
	return out
}

func (p *Pool) usedLocked() int {
	used := 0
	for _, b := range p.blocks {
		if b {
			used++
		}
	}
	return used
}

func (p *Pool) largestRunLocked() int {
	best, run := 0, 0
	for _, b := range p.blocks {
		if b {
			run = 0
			continue
		}
		run++
		if run > best {
			best = run
		}
	}
	return best
}

// String renders the snapshot as one human-readable line with grouped
// digits, e.g. "12/256 blocks used (786,432 of 16,777,216 bytes), largest
// free run 200 blocks".
func (s Stats) String() string {
	pr := message.NewPrinter(language.English)
	return pr.Sprintf("%d/%d blocks used (%d of %d bytes), largest free run %d blocks",
		s.UsedBlocks, s.Blocks, s.UsedBytes, s.PoolBytes, s.LargestFreeRun)
}
