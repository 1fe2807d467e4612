package main

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmain9906/mcodepool/cmd/poolwatch/logger"
	"github.com/jmain9906/mcodepool/mcode"
)

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if !m.paused {
			m.pushEvents(m.workload.step(m.pool))
		}
		m.stats = m.pool.Stats()
		m.blocks = m.pool.Snapshot()
		return m, tickCmd()

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil

	case tea.KeyMsg:
		// If help is showing, only closing keys matter
		if m.showHelp {
			if key.Matches(msg, m.keys.Esc) || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
				m.showHelp = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil

		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			if m.paused {
				return m.setStatus("Workload paused")
			}
			return m.setStatus("Workload resumed")

		case key.Matches(msg, m.keys.Faster):
			m.workload.faster()
			return m.setStatus(fmt.Sprintf("Churn: %d ops/tick", m.workload.rate))

		case key.Matches(msg, m.keys.Slower):
			m.workload.slower()
			return m.setStatus(fmt.Sprintf("Churn: %d ops/tick", m.workload.rate))

		case key.Matches(msg, m.keys.Acquire):
			mem, err := m.pool.Acquire(mcode.BlockSize, mcode.ProtRW)
			if err != nil {
				logger.Warn("manual acquire failed", "error", err)
				return m.setStatus(fmt.Sprintf("Acquire failed: %v", err))
			}
			m.manual = append(m.manual, mem)
			m.stats = m.pool.Stats()
			m.blocks = m.pool.Snapshot()
			return m.setStatus(fmt.Sprintf("Acquired block at %#x", addrOf(mem)))

		case key.Matches(msg, m.keys.Release):
			if len(m.manual) == 0 {
				return m.setStatus("Nothing acquired by hand")
			}
			mem := m.manual[len(m.manual)-1]
			m.manual = m.manual[:len(m.manual)-1]
			if err := m.pool.Release(mem); err != nil {
				logger.Warn("manual release failed", "error", err)
				return m.setStatus(fmt.Sprintf("Release failed: %v", err))
			}
			m.stats = m.pool.Stats()
			m.blocks = m.pool.Snapshot()
			return m.setStatus(fmt.Sprintf("Released block at %#x", addrOf(mem)))

		case key.Matches(msg, m.keys.Copy):
			line := m.stats.String()
			if err := clipboard.WriteAll(line); err != nil {
				logger.Warn("clipboard write failed", "error", err)
				return m.setStatus("Failed to copy stats")
			}
			return m.setStatus("Stats copied to clipboard")
		}
	}

	return m, nil
}

// setStatus shows a message and schedules it to clear
func (m Model) setStatus(text string) (tea.Model, tea.Cmd) {
	m.statusMessage = text
	return m, tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m *Model) pushEvents(batch []event) {
	m.events = append(m.events, batch...)
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
}
