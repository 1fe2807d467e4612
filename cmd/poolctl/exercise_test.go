//go:build unix || windows

package main

import (
	"testing"
)

func TestExerciseCommand(t *testing.T) {
	quiet = false
	verbose = false
	jsonOut = false
	exSizeKB = 512
	exRounds = 200
	exMaxBlocks = 3
	exSeed = 7

	output, err := captureOutput(t, runExercise)
	if err != nil {
		t.Fatalf("runExercise() error = %v", err)
	}
	assertContains(t, output, []string{"blocks used", "Acquires:"})

	// Same seed, same pool, same story.
	again, err := captureOutput(t, runExercise)
	if err != nil {
		t.Fatalf("runExercise() replay error = %v", err)
	}
	if output != again {
		t.Errorf("replay diverged\nFirst: %s\nSecond: %s", output, again)
	}
}

func TestExerciseCommandJSON(t *testing.T) {
	quiet = true
	verbose = false
	jsonOut = true
	exSizeKB = 256
	exRounds = 50
	exMaxBlocks = 2
	exSeed = 3

	output, err := captureOutput(t, runExercise)
	if err != nil {
		t.Fatalf("runExercise() error = %v", err)
	}
	assertJSON(t, output)
	assertContains(t, output, []string{"UsedBlocks", "Acquires"})
}
