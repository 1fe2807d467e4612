//go:build unix || windows

package wazeromem

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/jmain9906/mcodepool/mcode"
)

func newTestPool(t *testing.T, blocks int) *mcode.Pool {
	t.Helper()
	p, err := mcode.New(mcode.Config{
		SizeKB: blocks * mcode.BlockKB,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

// Test_PoolBackedMemory verifies that a guest memory lives in the pool,
// grows without moving and releases its blocks on Free.
func Test_PoolBackedMemory(t *testing.T) {
	p := newTestPool(t, 8)
	a := New(p)
	a.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	lm := a.Allocate(2*mcode.BlockSize, 4*mcode.BlockSize)
	require.NotNil(t, lm)
	require.Equal(t, 4, p.Stats().UsedBlocks, "Maximum should be reserved up front")

	buf := lm.Reallocate(2 * mcode.BlockSize)
	require.Len(t, buf, 2*mcode.BlockSize)
	base := uintptr(unsafe.Pointer(&buf[0]))
	buf[0] = 0x7F
	buf[len(buf)-1] = 0x42

	// Growth extends in place over blocks the grant already owns.
	grown := lm.Reallocate(4 * mcode.BlockSize)
	require.Len(t, grown, 4*mcode.BlockSize)
	require.Equal(t, base, uintptr(unsafe.Pointer(&grown[0])), "Backing array must not move")
	require.Equal(t, byte(0x7F), grown[0])
	require.Equal(t, byte(0x42), grown[2*mcode.BlockSize-1])

	// Past the grant there is nothing to grow into.
	require.Nil(t, lm.Reallocate(8*mcode.BlockSize))

	lm.Free()
	require.Equal(t, 0, p.Stats().UsedBlocks)
	lm.Free() // second Free is a no-op
}

// Test_HeapFallback verifies that a memory too large for the pool still
// works, backed by the heap.
func Test_HeapFallback(t *testing.T) {
	p := newTestPool(t, 2)
	a := New(p)
	a.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	lm := a.Allocate(mcode.BlockSize, 16*mcode.BlockSize)
	require.NotNil(t, lm)
	require.Equal(t, 0, p.Stats().UsedBlocks, "Fallback must not touch the pool")

	buf := lm.Reallocate(mcode.BlockSize)
	require.Len(t, buf, mcode.BlockSize)
	buf[0] = 0x2A

	grown := lm.Reallocate(2 * mcode.BlockSize)
	require.Len(t, grown, 2*mcode.BlockSize)
	require.Equal(t, byte(0x2A), grown[0])

	lm.Free()
	require.Equal(t, 0, p.Stats().UsedBlocks)
}

// Test_WithPool verifies the context plumbing compiles against the wazero
// experimental hook.
func Test_WithPool(t *testing.T) {
	p := newTestPool(t, 2)
	ctx := WithPool(context.Background(), p)
	require.NotNil(t, ctx)
	require.NotEqual(t, context.Background(), ctx)
}
