//go:build !unix && !windows

package vmem

// Reserve is unavailable: no mmap/VirtualAlloc equivalent to build on.
func Reserve(size int, hint uintptr) ([]byte, error) {
	return nil, ErrUnsupported
}

func Unmap(mem []byte) error { return ErrUnsupported }

func Protect(mem []byte, prot Prot) error { return ErrUnsupported }

func Decommit(mem []byte) error { return ErrUnsupported }
