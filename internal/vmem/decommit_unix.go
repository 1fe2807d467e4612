//go:build unix && !linux && !darwin

package vmem

import "golang.org/x/sys/unix"

// Decommit hints that the physical pages backing mem may be reclaimed.
func Decommit(mem []byte) error {
	return unix.Madvise(mem, unix.MADV_DONTNEED)
}
