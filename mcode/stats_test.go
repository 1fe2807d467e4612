//go:build unix || windows

package mcode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Test_StatsTracking verifies occupancy accounting across a mixed
// acquire/release sequence.
func Test_StatsTracking(t *testing.T) {
	p := newTestPool(t, 8)

	a, err := p.Acquire(2*BlockSize, ProtRW)
	require.NoError(t, err)
	b, err := p.Acquire(BlockSize, ProtRW)
	require.NoError(t, err)

	s := p.Stats()
	require.Equal(t, 8, s.Blocks)
	require.Equal(t, 8*BlockSize, s.PoolBytes)
	require.Equal(t, BlockSize, s.BlockBytes)
	require.Equal(t, 3, s.UsedBlocks)
	require.Equal(t, 5, s.FreeBlocks)
	require.Equal(t, 3*BlockSize, s.UsedBytes)
	require.Equal(t, 5*BlockSize, s.FreeBytes)
	require.Equal(t, 5, s.LargestFreeRun, "Free tail should be one run")
	require.Equal(t, uint64(2), s.Acquires)
	require.Equal(t, uint64(0), s.Releases)

	// Freeing the first grant splits free space into runs of 2 and 5.
	require.NoError(t, p.Release(a))
	s = p.Stats()
	require.Equal(t, 1, s.UsedBlocks)
	require.Equal(t, 5, s.LargestFreeRun)
	require.Equal(t, uint64(1), s.Releases)

	require.NoError(t, p.Release(b))
	s = p.Stats()
	require.Equal(t, 0, s.UsedBlocks)
	require.Equal(t, 8, s.LargestFreeRun)
}

// Test_Snapshot verifies the occupancy copy matches grant placement and is
// detached from pool state.
func Test_Snapshot(t *testing.T) {
	p := newTestPool(t, 4)

	a, err := p.Acquire(BlockSize, ProtRW)
	require.NoError(t, err)
	b, err := p.Acquire(2*BlockSize, ProtRW)
	require.NoError(t, err)
	require.NoError(t, p.Release(a))

	snap := p.Snapshot()
	require.Equal(t, []bool{false, true, true, false}, snap)

	// Mutating the copy must not leak into the pool.
	snap[3] = true
	mem, err := p.Acquire(BlockSize, ProtRW)
	require.NoError(t, err)
	require.Equal(t, p.Base(), addrOf(mem), "Block 0 should still be free")

	require.NoError(t, p.Release(mem))
	require.NoError(t, p.Release(b))
}

// Test_StatsString verifies the one-line rendering with grouped digits.
func Test_StatsString(t *testing.T) {
	s := Stats{
		Blocks:         256,
		PoolBytes:      256 * BlockSize,
		UsedBlocks:     12,
		UsedBytes:      12 * BlockSize,
		LargestFreeRun: 200,
	}
	require.Equal(t,
		"12/256 blocks used (786,432 of 16,777,216 bytes), largest free run 200 blocks",
		s.String())
}

// Test_Geometry verifies the address range accessors.
func Test_Geometry(t *testing.T) {
	p := newTestPool(t, 4)

	require.Zero(t, p.Base()%BlockSize, "Base should be block aligned")
	require.Equal(t, p.Base()+uintptr(p.Size()), p.Limit())
	require.Equal(t, 4, p.Blocks())
	require.Equal(t, 4*BlockSize, p.Size())
}
