//go:build unix || windows

package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// TestViewRendersPanes tests the main layout: header, map, stats, status
func TestViewRendersPanes(t *testing.T) {
	helper := NewTestHelper(t, 8)
	helper.SendWindowSize(100, 30)

	view := helper.GetView()
	for _, want := range []string{"Machine-Code Pool Monitor", "Occupancy", "Statistics", "Activity", "8 blocks"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

// TestViewBeforeWindowSize tests the placeholder before the first resize
func TestViewBeforeWindowSize(t *testing.T) {
	helper := NewTestHelper(t, 4)
	if view := helper.GetView(); !strings.Contains(view, "Starting up") {
		t.Errorf("View = %q, want startup placeholder", view)
	}
}

// TestBlockMapShowsOccupancy tests that a hand grant shows as a used cell
func TestBlockMapShowsOccupancy(t *testing.T) {
	helper := NewTestHelper(t, 4)
	helper.SendWindowSize(100, 30)

	if view := helper.GetView(); strings.Contains(view, "■") {
		t.Error("Fresh pool should have no used cells")
	}

	helper.SendKeyRune('a')
	if view := helper.GetView(); !strings.Contains(view, "■") {
		t.Error("View should show a used cell after a hand grant")
	}
}

// TestHelpOverlay tests opening and closing the help overlay
func TestHelpOverlay(t *testing.T) {
	helper := NewTestHelper(t, 4)
	helper.SendWindowSize(100, 30)

	helper.SendKeyRune('?')
	model := helper.GetModel()
	if !model.showHelp {
		t.Fatal("Help should be showing after ?")
	}
	if view := helper.GetView(); !strings.Contains(view, "Keyboard Shortcuts") {
		t.Error("Help overlay should list keyboard shortcuts")
	}

	// Other keys are ignored while help is up
	helper.SendKeyRune('a')
	if got := len(helper.GetModel().manual); got != 0 {
		t.Errorf("Hand grants = %d, want 0 while help is open", got)
	}

	helper.SendKey(tea.KeyEsc)
	if helper.GetModel().showHelp {
		t.Fatal("Help should close on esc")
	}
}

// TestStatusMessageLifecycle tests transient feedback and its clearing
func TestStatusMessageLifecycle(t *testing.T) {
	helper := NewTestHelper(t, 4)
	helper.SendWindowSize(100, 30)

	helper.SendKeyRune(' ')
	if helper.GetModel().statusMessage == "" {
		t.Fatal("Pause should set a status message")
	}
	if view := helper.GetView(); !strings.Contains(view, "paused") {
		t.Error("Status bar should show the pause notice")
	}

	updated, _ := helper.GetModel().Update(clearStatusMsg{})
	helper.model = updated.(Model)
	if got := helper.GetModel().statusMessage; got != "" {
		t.Errorf("Status message = %q after clear, want empty", got)
	}
}
