//go:build linux

package vmem

import "golang.org/x/sys/unix"

// Decommit hints that the physical pages backing mem may be reclaimed.
//
// MADV_DONTNEED drops the pages immediately; the range stays mapped and
// refaults as zero-filled on the next access.
func Decommit(mem []byte) error {
	return unix.Madvise(mem, unix.MADV_DONTNEED)
}
