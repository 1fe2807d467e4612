//go:build linux

package vmem

import (
	"os"
	"testing"
)

// MADV_DONTNEED on an anonymous private mapping drops the pages eagerly,
// so the next read faults in fresh zero pages. That refault-as-zero
// behavior is what the pool relies on to hand out clean blocks.
func TestDecommitZeroesPages(t *testing.T) {
	page := os.Getpagesize()
	mem, err := Reserve(16*page, 0)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	defer func() {
		if unmapErr := Unmap(mem); unmapErr != nil {
			t.Fatalf("Unmap: %v", unmapErr)
		}
	}()

	span := mem[:4*page]
	if err := Protect(span, Read|Write); err != nil {
		t.Fatalf("Protect: %v", err)
	}
	for i := range span {
		span[i] = 0x5A
	}
	if err := Decommit(span); err != nil {
		t.Fatalf("Decommit: %v", err)
	}
	for i, b := range span {
		if b != 0 {
			t.Fatalf("byte %d not zeroed after decommit: 0x%x", i, b)
		}
	}
}
