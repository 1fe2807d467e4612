//go:build unix

package vmem

import (
	"os"
	"testing"
	"unsafe"
)

func TestReserveProtectWrite(t *testing.T) {
	const size = 256 << 10
	mem, err := Reserve(size, 0)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	defer func() {
		if unmapErr := Unmap(mem); unmapErr != nil {
			t.Fatalf("Unmap: %v", unmapErr)
		}
	}()
	if len(mem) != size {
		t.Fatalf("len mismatch: got %d want %d", len(mem), size)
	}

	page := os.Getpagesize()
	span := mem[:2*page]
	if err := Protect(span, Read|Write); err != nil {
		t.Fatalf("Protect: %v", err)
	}
	for i := range span {
		span[i] = 0xAB
	}
	if span[0] != 0xAB || span[len(span)-1] != 0xAB {
		t.Fatalf("writes did not stick")
	}
	if err := Decommit(span); err != nil {
		t.Fatalf("Decommit: %v", err)
	}
}

func TestReserveRejectsBadSize(t *testing.T) {
	if _, err := Reserve(0, 0); err == nil {
		t.Fatalf("expected error for zero size")
	}
	if _, err := Reserve(-4096, 0); err == nil {
		t.Fatalf("expected error for negative size")
	}
}

func TestReserveWithHint(t *testing.T) {
	// The hint is advisory: reservation must succeed whether or not the
	// kernel honors it. Point it at memory that is certainly occupied so
	// the fallback path is what gets exercised.
	var probe byte
	hint := uintptr(unsafe.Pointer(&probe)) &^ uintptr(os.Getpagesize()-1)
	mem, err := Reserve(128<<10, hint)
	if err != nil {
		t.Fatalf("Reserve with hint: %v", err)
	}
	if err := Unmap(mem); err != nil {
		t.Fatalf("Unmap: %v", err)
	}
}

func TestUnmapEmpty(t *testing.T) {
	if err := Unmap(nil); err != nil {
		t.Fatalf("Unmap(nil): %v", err)
	}
}
