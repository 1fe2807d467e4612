// Package mcode manages a fixed pool of executable memory for JIT-style
// code emitters on targets where on-demand executable mappings are
// unavailable, rationed, or simply too slow to create per trace.
//
// The pool is one contiguous address range reserved up front and carved
// into 64 KiB blocks. Acquiring memory never maps anything new; it only
// flips the access rights on blocks that already exist. That makes the
// pool immune to address space exhaustion and mapping-count limits once it
// has been created, at the price of a hard capacity ceiling.
//
// # Geometry
//
// The reservation is one block larger than the usable capacity so the
// usable range can begin on a 64 KiB boundary regardless of where the
// kernel placed it. Everything the pool hands out is therefore
// BlockSize-aligned, which code emitters rely on for area alignment and
// for packing auxiliary data in the low bits of code addresses.
//
// Grants are first fit: the scan walks the occupancy map from the lowest
// block and takes the first free run that fits. Allocation patterns repeat
// exactly from a fresh pool, which keeps code placement reproducible
// across runs of the same workload.
//
// # Acquire and release
//
// Acquire returns a slice whose length is the requested size and whose
// capacity is the whole run of blocks backing it. Sizes round up to whole
// blocks; a request that is not a block multiple still succeeds but wastes
// the tail of its last block, so the pool logs it as a likely caller bug.
// When no run is large enough, Acquire returns ErrNoSpace and the caller
// is expected to fall back, typically to flushing old code and retrying.
//
// Release accepts exactly the slices Acquire produced. The pool cannot
// tell a stale duplicate release from a fresh one, so releasing an
// already-free block is tolerated and logged rather than rejected. Memory
// from outside the pool is rejected with ErrOutOfRange. An address inside
// the pool but off a block boundary can only come from a corrupted
// pointer, and the pool panics rather than free blocks that another grant
// may still own.
//
// Released blocks stay reserved but their pages are handed back to the
// kernel with a reclamation hint. The hint is best effort; when the kernel
// refuses, the blocks are still reusable and only a diagnostic is emitted.
//
// # Concurrency
//
// One mutex guards the occupancy map, and it stays held across the
// protection change on acquire and the reclamation hint on release. Those
// syscalls are cheap, the pool is a fallback path rather than a hot path,
// and holding the lock keeps the map and the page permissions in a single
// consistent story.
//
// # Diagnostics
//
// The pool logs through a caller-supplied *slog.Logger (slog.Default when
// unset). Tolerated misuse (unaligned sizes, duplicate releases,
// exhaustion) logs at Warn. Platform failures and rejected arguments log
// at Error. Per-grant traces log at Debug and are skipped entirely unless
// the handler enables that level. Stats and Snapshot expose occupancy and
// lifetime counters without any logging.
//
// # The default pool
//
// Default returns a lazily created process-wide pool sized by the
// link-time string DefaultPoolKB, for programs that want one pool per
// process without threading a *Pool through their code. The package-level
// Acquire and Release forward to it.
package mcode
