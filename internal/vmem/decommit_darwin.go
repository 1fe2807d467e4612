//go:build darwin

package vmem

import "golang.org/x/sys/unix"

// Decommit hints that the physical pages backing mem may be reclaimed.
//
// Darwin frees the pages lazily under memory pressure; until then a
// refault sees the old contents rather than zeroes.
func Decommit(mem []byte) error {
	return unix.Madvise(mem, unix.MADV_FREE)
}
