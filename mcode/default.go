package mcode

import (
	"fmt"
	"strconv"
	"sync"
)

// DefaultPoolKB sizes the process-wide default pool in KiB. It is a string
// so builds can fix the capacity at link time:
//
//	go build -ldflags "-X github.com/jmain9906/mcodepool/mcode.DefaultPoolKB=8192"
var DefaultPoolKB = "16384"

var (
	defaultOnce sync.Once
	defaultPool *Pool
)

// Default returns the process-wide pool, creating it on first use from
// DefaultPoolKB. The default pool lives as long as the process and has no
// teardown path. A DefaultPoolKB that cannot produce a pool is a build
// configuration error and panics.
func Default() *Pool {
	defaultOnce.Do(func() {
		kb, err := strconv.Atoi(DefaultPoolKB)
		if err != nil {
			panic(fmt.Sprintf("mcode: DefaultPoolKB %q is not an integer: %v", DefaultPoolKB, err))
		}
		p, err := New(Config{SizeKB: kb})
		if err != nil {
			panic(fmt.Sprintf("mcode: default pool: %v", err))
		}
		defaultPool = p
	})
	return defaultPool
}

// Acquire grants size bytes from the default pool. See Pool.Acquire.
func Acquire(size int, prot Protection) ([]byte, error) {
	return Default().Acquire(size, prot)
}

// Release returns mem to the default pool. See Pool.Release.
func Release(mem []byte) error {
	return Default().Release(mem)
}
