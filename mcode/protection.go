package mcode

import "github.com/jmain9906/mcodepool/internal/vmem"

// Protection selects the access rights applied to acquired memory. Values
// are a bitwise OR of ProtRead, ProtWrite and ProtExec; the zero value maps
// all access away, which is occasionally useful for guard regions.
type Protection uint8

const (
	ProtRead  = Protection(vmem.Read)
	ProtWrite = Protection(vmem.Write)
	ProtExec  = Protection(vmem.Exec)

	// ProtRW is the usual mode while emitting code into a run.
	ProtRW = ProtRead | ProtWrite
	// ProtRX is the usual mode while executing a finished run.
	ProtRX = ProtRead | ProtExec
	// ProtRWX suits targets that cannot afford a protection flip between
	// emitting and executing.
	ProtRWX = ProtRead | ProtWrite | ProtExec
)

// valid reports whether p uses only defined bits.
func (p Protection) valid() bool {
	return p&^ProtRWX == 0
}

// String renders p in ls -l style, e.g. "rw-" or "r-x".
func (p Protection) String() string {
	b := [3]byte{'-', '-', '-'}
	if p&ProtRead != 0 {
		b[0] = 'r'
	}
	if p&ProtWrite != 0 {
		b[1] = 'w'
	}
	if p&ProtExec != 0 {
		b[2] = 'x'
	}
	return string(b[:])
}
