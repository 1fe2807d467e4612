package mcode

import "fmt"

// blocksFor converts a byte count to whole blocks, rounding up. aligned
// reports whether size was already a block multiple; non-positive sizes
// count as aligned so they surface as ErrBadSize without a rounding
// warning.
func blocksFor(size int) (blocks int, aligned bool) {
	if size <= 0 {
		return 0, true
	}
	blocks = size / BlockSize
	if size%BlockSize != 0 {
		return blocks + 1, false
	}
	return blocks, true
}

// indexToAddr returns the address of block i. Together with addrToIndex it
// is the only place indexes and addresses convert into each other.
func (p *Pool) indexToAddr(i int) uintptr {
	return p.base + uintptr(i)*BlockSize
}

// addrToIndex maps addr back to a block index, validating that a run of
// blocks starting there lies inside the pool. A range that falls outside
// the pool is a recoverable caller error. An in-pool address that is not
// block-aligned cannot have been produced by Acquire; that means a
// corrupted pointer, and continuing would free blocks some other grant
// still owns, so it panics instead.
func (p *Pool) addrToIndex(addr uintptr, blocks int) (int, error) {
	total := uintptr(blocks) * BlockSize
	end := addr + total
	if end < addr || addr < p.base || end > p.base+uintptr(p.size) {
		return 0, ErrOutOfRange
	}
	if addr%BlockSize != 0 {
		panic(fmt.Sprintf("mcode: release of misaligned address %#x inside the pool", uint64(addr)))
	}
	i := int((addr - p.base) / BlockSize)
	if i < 0 || i+blocks > len(p.blocks) {
		panic(fmt.Sprintf("mcode: blocks %d..%d escape occupancy map of %d", i, i+blocks, len(p.blocks)))
	}
	return i, nil
}

// blockSpan returns the pool bytes backing blocks [start, start+n). The
// capacity is clamped to the run so a slice handed out cannot grow into a
// neighboring run.
func (p *Pool) blockSpan(start, n int) []byte {
	lo := p.off + start*BlockSize
	hi := lo + n*BlockSize
	return p.region[lo:hi:hi]
}
