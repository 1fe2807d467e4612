// Package vmem provides platform-specific virtual-memory primitives for the
// block pool: reserving address space, changing page protection, and hinting
// that pages may be reclaimed.
//
// A reservation made by Reserve is inaccessible until a sub-range is passed
// to Protect. Decommit tells the operating system the physical backing of a
// range is no longer needed without giving up the address range itself; the
// range stays reserved and refaults as zero-filled (unix) or after a
// recommit (windows).
package vmem

import "errors"

// Prot is the access mode applied to a protected range. The zero value
// means no access.
type Prot uint8

const (
	Read Prot = 1 << iota
	Write
	Exec
)

// ErrUnsupported is returned by Reserve on platforms without the required
// virtual-memory syscalls. There is no portable fallback: an executable-code
// pool cannot be emulated with ordinary heap memory.
var ErrUnsupported = errors.New("vmem: not supported on this platform")
