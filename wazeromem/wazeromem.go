// Package wazeromem backs wazero guest memories with pool blocks, so Wasm
// linear memory and generated code come out of the same fixed reservation.
//
// Wasm pages are 64 KiB, the pool's block size, so page-granular memory
// limits translate one to one into blocks. The allocator grabs a memory's
// declared maximum up front; growing the guest memory then only extends
// the slice length over blocks it already owns, which keeps the backing
// array at one address for the memory's whole life. Memories that do not
// fit the pool fall back to the Go heap instead of failing the runtime.
package wazeromem

import (
	"context"
	"log/slog"
	"math"

	"github.com/tetratelabs/wazero/experimental"

	"github.com/jmain9906/mcodepool/mcode"
)

// Allocator implements experimental.MemoryAllocator over one pool.
type Allocator struct {
	Pool   *mcode.Pool
	Logger *slog.Logger // nil means slog.Default
}

var _ experimental.MemoryAllocator = (*Allocator)(nil)

// New returns an allocator that serves guest memories from p.
func New(p *mcode.Pool) *Allocator {
	return &Allocator{Pool: p}
}

// WithPool returns ctx configured so wazero runtimes created under it
// allocate guest memory from p.
func WithPool(ctx context.Context, p *mcode.Pool) context.Context {
	return experimental.WithMemoryAllocator(ctx, New(p))
}

// Allocate reserves max bytes from the pool and hands back a linear memory
// sized to cap. Declared maximums keep the backing array from ever moving;
// when the pool cannot hold max, the memory falls back to a heap slice,
// which may move on growth like the default allocator.
func (a *Allocator) Allocate(cap, max uint64) experimental.LinearMemory {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if max > uint64(math.MaxInt) {
		logger.Warn("linear memory maximum exceeds the address space, using the heap",
			"cap", cap, "max", max)
		return &heapMemory{buf: make([]byte, cap), max: max}
	}
	buf, err := a.Pool.Acquire(int(max), mcode.ProtRW)
	if err != nil {
		logger.Warn("linear memory does not fit the pool, using the heap",
			"cap", cap, "max", max, "error", err)
		return &heapMemory{buf: make([]byte, cap), max: max}
	}
	return &poolMemory{pool: a.Pool, logger: logger, buf: buf[:cap]}
}

// poolMemory is a non-moving linear memory over one pool grant.
type poolMemory struct {
	pool   *mcode.Pool
	logger *slog.Logger
	buf    []byte // length tracks the guest size, capacity is the grant
}

var _ experimental.LinearMemory = (*poolMemory)(nil)

func (m *poolMemory) Reallocate(size uint64) []byte {
	if size > uint64(cap(m.buf)) {
		return nil
	}
	m.buf = m.buf[:size]
	return m.buf
}

func (m *poolMemory) Free() {
	if m.buf == nil {
		return
	}
	if err := m.pool.Release(m.buf[:cap(m.buf)]); err != nil {
		m.logger.Error("linear memory release failed", "error", err)
	}
	m.buf = nil
}

// heapMemory is the fallback when a memory cannot come from the pool.
type heapMemory struct {
	buf []byte
	max uint64
}

var _ experimental.LinearMemory = (*heapMemory)(nil)

func (m *heapMemory) Reallocate(size uint64) []byte {
	if c := uint64(cap(m.buf)); size > c {
		m.buf = append(m.buf[:c], make([]byte, size-c)...)
	} else {
		m.buf = m.buf[:size]
	}
	return m.buf
}

func (m *heapMemory) Free() {}
