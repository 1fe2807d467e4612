//go:build unix || windows

package main

import (
	"testing"
	"time"
)

func TestSoakCommand(t *testing.T) {
	quiet = false
	verbose = false
	jsonOut = false
	soakSizeKB = 256
	soakWorkers = 2
	soakMaxBlocks = 2
	soakDuration = 200 * time.Millisecond

	output, err := captureOutput(t, runSoak)
	if err != nil {
		t.Fatalf("runSoak() error = %v", err)
	}
	assertContains(t, output, []string{"0/4 blocks used", "Acquires:"})
}
