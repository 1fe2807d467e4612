package mcode

import "errors"

var (
	// ErrNoSpace indicates no contiguous run of free blocks was large enough.
	// Exhaustion is an expected outcome; callers fall back to another
	// allocation strategy.
	ErrNoSpace = errors.New("mcode: no contiguous free run large enough")

	// ErrBadSize indicates a size that rounds to zero blocks.
	ErrBadSize = errors.New("mcode: size rounds to zero blocks")

	// ErrBadProt indicates a protection value with bits outside
	// read/write/exec.
	ErrBadProt = errors.New("mcode: protection has unsupported bits")

	// ErrOutOfRange indicates a release of memory that does not lie inside
	// the pool.
	ErrOutOfRange = errors.New("mcode: address range outside the pool")

	// ErrClosed indicates use of a pool after Close.
	ErrClosed = errors.New("mcode: pool is closed")

	// ErrPoolTooSmall indicates a configured capacity below one block.
	ErrPoolTooSmall = errors.New("mcode: pool must hold at least one block")
)
