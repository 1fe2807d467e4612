package main

import (
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmain9906/mcodepool/mcode"
)

// TestHelper provides utilities for testing the TUI against a real pool
type TestHelper struct {
	model Model
}

// NewTestHelper creates a helper around a small pool
func NewTestHelper(t *testing.T, blocks int) *TestHelper {
	t.Helper()
	pool, err := mcode.New(mcode.Config{
		SizeKB: blocks * mcode.BlockKB,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	h := &TestHelper{model: NewModel(pool, 1)}
	t.Cleanup(func() { _ = h.model.Close() })
	return h
}

// SendKey simulates a key press but does not execute async commands
func (h *TestHelper) SendKey(keyType tea.KeyType) *TestHelper {
	msg := tea.KeyMsg{Type: keyType}
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

// SendKeyRune simulates a character key press
func (h *TestHelper) SendKeyRune(r rune) *TestHelper {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

// SendWindowSize simulates a window resize
func (h *TestHelper) SendWindowSize(width, height int) *TestHelper {
	msg := tea.WindowSizeMsg{Width: width, Height: height}
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

// SendTick advances the model by one refresh tick
func (h *TestHelper) SendTick() *TestHelper {
	updated, _ := h.model.Update(tickMsg(time.Now()))
	h.model = updated.(Model)
	return h
}

// GetModel returns the current model
func (h *TestHelper) GetModel() Model {
	return h.model
}

// GetView returns the rendered view
func (h *TestHelper) GetView() string {
	return h.model.View()
}
