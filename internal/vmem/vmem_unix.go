//go:build unix

package vmem

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Reserve maps size bytes of anonymous, private, inaccessible address space
// and returns it as a slice. hint, when nonzero, is passed to the kernel as
// a preferred placement address; it is never forced (no MAP_FIXED), so the
// mapping may land elsewhere and callers must check the result's address.
func Reserve(size int, hint uintptr) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("vmem: invalid reservation size %d", size)
	}
	var addr unsafe.Pointer
	if hint != 0 {
		// The hint is an address the caller computed (e.g. near its own
		// code), not a pointer derived from Go memory.
		addr = unsafe.Pointer(hint)
	}
	p, err := unix.MmapPtr(-1, 0, addr, uintptr(size),
		unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("vmem: mmap reserve of %d bytes: %w", size, err)
	}
	return unsafe.Slice((*byte)(p), size), nil
}

// Unmap returns a reservation obtained from Reserve to the operating system.
// mem must be the full slice Reserve returned.
func Unmap(mem []byte) error {
	if len(mem) == 0 {
		return nil
	}
	return unix.MunmapPtr(unsafe.Pointer(&mem[0]), uintptr(len(mem)))
}

// Protect sets the access mode of mem, which must be page-aligned and lie
// inside a reservation. Passing the zero Prot revokes all access.
func Protect(mem []byte, prot Prot) error {
	return unix.Mprotect(mem, protBits(prot))
}

func protBits(prot Prot) int {
	bits := unix.PROT_NONE
	if prot&Read != 0 {
		bits |= unix.PROT_READ
	}
	if prot&Write != 0 {
		bits |= unix.PROT_WRITE
	}
	if prot&Exec != 0 {
		bits |= unix.PROT_EXEC
	}
	return bits
}
