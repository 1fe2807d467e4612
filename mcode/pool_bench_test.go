//go:build unix || windows

package mcode

import (
	"io"
	"log/slog"
	"testing"
)

func newBenchPool(b *testing.B, blocks int) *Pool {
	b.Helper()
	p, err := New(Config{
		SizeKB: blocks * BlockKB,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = p.Close() })
	return p
}

// BenchmarkAcquireRelease measures a single-block round trip, protection
// change and reclamation hint included.
func BenchmarkAcquireRelease(b *testing.B) {
	p := newBenchPool(b, 16)

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		mem, err := p.Acquire(BlockSize, ProtRW)
		if err != nil {
			b.Fatal(err)
		}
		if err := p.Release(mem); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkAcquireRelease_FourBlocks measures a multi-block round trip.
func BenchmarkAcquireRelease_FourBlocks(b *testing.B) {
	p := newBenchPool(b, 16)

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		mem, err := p.Acquire(4*BlockSize, ProtRW)
		if err != nil {
			b.Fatal(err)
		}
		if err := p.Release(mem); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkAcquire_FullScan measures the occupancy scan when only the last
// block is free, the worst case for the first-fit walk.
func BenchmarkAcquire_FullScan(b *testing.B) {
	p := newBenchPool(b, 256)
	head, err := p.Acquire(p.Size()-BlockSize, ProtRW)
	if err != nil {
		b.Fatal(err)
	}
	defer func() { _ = p.Release(head) }()

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		mem, err := p.Acquire(BlockSize, ProtRW)
		if err != nil {
			b.Fatal(err)
		}
		if err := p.Release(mem); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkStats measures the snapshot cost on a half-full pool.
func BenchmarkStats(b *testing.B) {
	p := newBenchPool(b, 256)
	mem, err := p.Acquire(p.Size()/2, ProtRW)
	if err != nil {
		b.Fatal(err)
	}
	defer func() { _ = p.Release(mem) }()

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		_ = p.Stats()
	}
}
