//go:build windows

package vmem

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Reserve reserves size bytes of address space without committing physical
// storage. hint, when nonzero, is a preferred placement address; if the
// range is unavailable the reservation falls back to a kernel-chosen one.
func Reserve(size int, hint uintptr) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("vmem: invalid reservation size %d", size)
	}
	base, err := windows.VirtualAlloc(hint, uintptr(size), windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil && hint != 0 {
		base, err = windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	}
	if err != nil {
		return nil, fmt.Errorf("vmem: VirtualAlloc reserve of %d bytes: %w", size, err)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(base)), size), nil
}

// Unmap releases a reservation obtained from Reserve. mem must be the full
// slice Reserve returned: MEM_RELEASE only accepts the allocation base.
func Unmap(mem []byte) error {
	if len(mem) == 0 {
		return nil
	}
	return windows.VirtualFree(uintptr(unsafe.Pointer(&mem[0])), 0, windows.MEM_RELEASE)
}

// Protect commits mem and sets its access mode. Committing an
// already-committed page is a no-op that leaves its protection alone, so
// VirtualProtect is always issued afterwards to apply the new mode.
func Protect(mem []byte, prot Prot) error {
	if len(mem) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&mem[0]))
	size := uintptr(len(mem))
	page := pageProtect(prot)
	if _, err := windows.VirtualAlloc(addr, size, windows.MEM_COMMIT, page); err != nil {
		return fmt.Errorf("vmem: VirtualAlloc commit: %w", err)
	}
	var old uint32
	if err := windows.VirtualProtect(addr, size, page, &old); err != nil {
		return fmt.Errorf("vmem: VirtualProtect: %w", err)
	}
	return nil
}

// Decommit returns the physical storage behind mem while keeping the range
// reserved. The pages fault until a later Protect commits them again.
func Decommit(mem []byte) error {
	if len(mem) == 0 {
		return nil
	}
	return windows.VirtualFree(uintptr(unsafe.Pointer(&mem[0])), uintptr(len(mem)), windows.MEM_DECOMMIT)
}

func pageProtect(prot Prot) uint32 {
	switch {
	case prot&Exec != 0 && prot&Write != 0:
		return windows.PAGE_EXECUTE_READWRITE
	case prot&Exec != 0:
		return windows.PAGE_EXECUTE_READ
	case prot&Write != 0:
		return windows.PAGE_READWRITE
	case prot&Read != 0:
		return windows.PAGE_READONLY
	default:
		return windows.PAGE_NOACCESS
	}
}
