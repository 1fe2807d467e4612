package mcode

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	"github.com/jmain9906/mcodepool/internal/vmem"
)

const (
	// BlockSize is the allocation granule in bytes. Machine-code areas on
	// the targets this package cares about want 64 KiB alignment, so the
	// pool deals exclusively in 64 KiB blocks.
	BlockSize = 64 << 10

	// BlockKB is BlockSize expressed in KiB, the unit Config.SizeKB uses.
	BlockKB = BlockSize / 1024
)

// Config carries the knobs for New. The zero value is not usable; SizeKB
// must hold at least one block.
type Config struct {
	// SizeKB is the pool capacity in KiB. Capacities that are not a
	// multiple of BlockKB lose the remainder as unusable slack.
	SizeKB int

	// Near, when nonzero, is a placement hint passed to the address space
	// reservation. Useful when generated code must sit within branch
	// range of existing text. Best effort only.
	Near uintptr

	// Logger receives diagnostics. Nil means slog.Default.
	Logger *slog.Logger
}

// Pool hands out runs of 64 KiB blocks from one fixed reservation made up
// front, so acquiring never allocates and every grant is BlockSize-aligned.
// All methods are safe for concurrent use.
type Pool struct {
	logger *slog.Logger

	mu     sync.Mutex
	region []byte // raw reservation, one block longer than the pool; nil once closed
	blocks []bool // occupancy map, true while a block is granted
	base   uintptr
	off    int // base's offset into region
	size   int // usable bytes, len(blocks)*BlockSize

	// counters, guarded by mu
	acquires       uint64
	releases       uint64
	exhaustions    uint64
	protectFails   uint64
	doubleReleases uint64
}

// New reserves the pool's address space and returns a pool with every block
// free. The reservation is one block over capacity so the usable range can
// start on a BlockSize boundary; pages carry no access rights until a block
// is acquired.
func New(cfg Config) (*Pool, error) {
	if cfg.SizeKB < BlockKB {
		return nil, fmt.Errorf("%w: %d KiB, need at least %d KiB", ErrPoolTooSmall, cfg.SizeKB, BlockKB)
	}
	nblocks := cfg.SizeKB / BlockKB
	size := nblocks * BlockSize

	region, err := vmem.Reserve(size+BlockSize, cfg.Near)
	if err != nil {
		return nil, fmt.Errorf("mcode: reserve %d bytes: %w", size+BlockSize, err)
	}
	start := uintptr(unsafe.Pointer(&region[0]))
	base := (start + BlockSize - 1) &^ uintptr(BlockSize-1)
	if base < start || base+uintptr(size) > start+uintptr(len(region)) {
		panic("mcode: aligned base escapes the reservation")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{
		logger: logger,
		region: region,
		blocks: make([]bool, nblocks),
		base:   base,
		off:    int(base - start),
		size:   size,
	}, nil
}

// Acquire grants size bytes of pool memory mapped with prot. The returned
// slice starts on a BlockSize boundary; its length is size and its capacity
// is the full run of blocks backing it. Grants are first fit, so the lowest
// free run that fits wins and repeating an acquire/release sequence lands
// on the same addresses.
//
// Sizes are rounded up to whole blocks. A size that is not a block multiple
// works but wastes the tail of the last block, so it is logged as a likely
// caller bug. Exhaustion returns ErrNoSpace.
func (p *Pool) Acquire(size int, prot Protection) ([]byte, error) {
	if !prot.valid() {
		return nil, fmt.Errorf("%w: %#x", ErrBadProt, uint8(prot))
	}
	blocks, aligned := blocksFor(size)
	if !aligned {
		p.logger.Warn("acquire size is not a block multiple",
			"size", size, "block_size", BlockSize, "blocks", blocks)
	}
	if blocks == 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSize, size)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.region == nil {
		return nil, ErrClosed
	}

	start := p.findRun(blocks)
	if start < 0 {
		p.exhaustions++
		used := p.usedLocked()
		p.logger.Warn("pool exhausted",
			"size", size, "blocks", blocks,
			"used_blocks", used, "free_blocks", len(p.blocks)-used,
			"total_blocks", len(p.blocks))
		return nil, ErrNoSpace
	}

	span := p.blockSpan(start, blocks)
	if err := vmem.Protect(span, vmem.Prot(prot)); err != nil {
		p.protectFails++
		addr := p.indexToAddr(start)
		p.logger.Error("protection change failed",
			"addr", fmt.Sprintf("%#x", addr), "prot", prot,
			"blocks", blocks, "error", err)
		return nil, fmt.Errorf("mcode: protect %s at %#x: %w", prot, addr, err)
	}
	for i := start; i < start+blocks; i++ {
		p.blocks[i] = true
	}
	p.acquires++

	if p.logger.Enabled(context.Background(), slog.LevelDebug) {
		p.logger.Debug("acquired",
			"addr", fmt.Sprintf("%#x", p.indexToAddr(start)),
			"size", size, "blocks", blocks, "prot", prot.String(),
			"used_blocks", p.usedLocked(), "total_blocks", len(p.blocks))
	}
	return span[:size], nil
}

// findRun returns the lowest start index of a run of n free blocks, or -1.
func (p *Pool) findRun(n int) int {
	for start := 0; start+n <= len(p.blocks); start++ {
		if p.blocks[start] {
			continue
		}
		free := true
		for i := start + 1; i < start+n; i++ {
			if p.blocks[i] {
				free = false
				break
			}
		}
		if free {
			return start
		}
	}
	return -1
}

// Release returns mem, a slice previously obtained from Acquire, to the
// pool and hints to the kernel that its pages may be reclaimed. The hint is
// best effort; if it fails the release still succeeds and only a diagnostic
// is logged. Passing the same slice again is tolerated and logged; the
// blocks just stay free. Memory that never came from this pool is rejected
// with ErrOutOfRange, except that an in-pool address off a block boundary
// panics, since a pointer like that can only come from corruption.
func (p *Pool) Release(mem []byte) error {
	size := len(mem)
	blocks, aligned := blocksFor(size)
	if !aligned {
		p.logger.Warn("release size is not a block multiple",
			"size", size, "block_size", BlockSize, "blocks", blocks)
	}
	if blocks == 0 {
		p.logger.Error("release of an empty range", "size", size)
		return fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	addr := uintptr(unsafe.Pointer(&mem[0]))

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.region == nil {
		return ErrClosed
	}

	idx, err := p.addrToIndex(addr, blocks)
	if err != nil {
		p.logger.Error("release outside the pool",
			"addr", fmt.Sprintf("%#x", addr), "size", size,
			"base", fmt.Sprintf("%#x", p.base),
			"limit", fmt.Sprintf("%#x", p.base+uintptr(p.size)))
		return fmt.Errorf("mcode: release %d bytes at %#x: %w", size, addr, err)
	}
	if !p.blocks[idx] {
		p.doubleReleases++
		p.logger.Warn("releasing an already-free block",
			"addr", fmt.Sprintf("%#x", addr), "block", idx)
	}
	for i := idx; i < idx+blocks; i++ {
		p.blocks[i] = false
	}
	p.releases++

	span := p.blockSpan(idx, blocks)
	if derr := vmem.Decommit(span); derr != nil {
		p.logger.Error("reclamation hint failed",
			"addr", fmt.Sprintf("%#x", addr), "bytes", len(span), "error", derr)
	}

	if p.logger.Enabled(context.Background(), slog.LevelDebug) {
		p.logger.Debug("released",
			"addr", fmt.Sprintf("%#x", addr), "size", size, "blocks", blocks,
			"used_blocks", p.usedLocked(), "total_blocks", len(p.blocks))
	}
	return nil
}

// Close unmaps the reservation. Every grant must have been released first;
// slices still outstanding point at unmapped pages afterwards. Close is
// idempotent.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.region == nil {
		return nil
	}
	err := vmem.Unmap(p.region)
	p.region = nil
	p.blocks = nil
	p.base = 0
	p.off = 0
	p.size = 0
	if err != nil {
		return fmt.Errorf("mcode: unmap: %w", err)
	}
	return nil
}

// Base returns the address of the first block, zero after Close.
func (p *Pool) Base() uintptr {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.base
}

// Limit returns the address one past the last block, zero after Close.
func (p *Pool) Limit() uintptr {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.base + uintptr(p.size)
}

// Size returns the usable capacity in bytes.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.size
}

// Blocks returns the number of blocks in the pool.
func (p *Pool) Blocks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.blocks)
}
