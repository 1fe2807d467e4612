package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmain9906/mcodepool/mcode"
)

const (
	tickInterval = 250 * time.Millisecond
	maxEvents    = 64
)

// Model is the main application model
type Model struct {
	pool     *mcode.Pool
	workload *workload
	keys     KeyMap

	width  int
	height int

	paused bool
	stats  mcode.Stats
	blocks []bool
	manual [][]byte // grants taken by hand with 'a'
	events []event

	// Help overlay
	showHelp bool

	// Status message for temporary feedback
	statusMessage string
}

// NewModel creates a new TUI model around an existing pool.
func NewModel(pool *mcode.Pool, seed int64) Model {
	return Model{
		pool:     pool,
		workload: newWorkload(seed),
		keys:     DefaultKeyMap(),
		stats:    pool.Stats(),
		blocks:   pool.Snapshot(),
	}
}

// Init starts the refresh ticker
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Close releases everything the TUI still holds and tears the pool down
func (m *Model) Close() error {
	for _, mem := range m.manual {
		_ = m.pool.Release(mem)
	}
	m.manual = nil
	m.workload.drain(m.pool)
	return m.pool.Close()
}

// Messages

type tickMsg time.Time

type clearStatusMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
