package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// View renders the entire UI
func (m Model) View() string {
	if m.width == 0 {
		return "Starting up..."
	}

	// Help renders as an overlay over the live view
	if m.showHelp {
		helpOverlay := overlay.New(
			NewHelpModel(m.keys),
			NewMainViewModel(&m),
			overlay.Center, // horizontal position
			overlay.Center, // vertical position
			0,
			0,
		)
		return helpOverlay.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderContent(),
		m.renderStatus(),
	)
}

// renderHeader renders the title and the pool's address range
func (m Model) renderHeader() string {
	title := headerStyle.Render("Machine-Code Pool Monitor")
	geometry := geometryStyle.Render(fmt.Sprintf(
		"%d blocks of %d KiB at %#x..%#x",
		m.stats.Blocks, m.stats.BlockBytes/1024, m.pool.Base(), m.pool.Limit()))

	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", geometry)
}

// renderContent renders the block map beside the stats feed
func (m Model) renderContent() string {
	mapWidth := m.width / 2
	statsWidth := m.width - mapWidth

	contentHeight := m.height - 6
	if contentHeight < 4 {
		contentHeight = 4
	}

	blockMap := paneStyle.
		Width(mapWidth - 2).
		Height(contentHeight).
		Render(m.renderBlockMap(mapWidth - 4))

	stats := paneStyle.
		Width(statsWidth - 2).
		Height(contentHeight).
		Render(m.renderStats(contentHeight))

	return lipgloss.JoinHorizontal(lipgloss.Top, blockMap, stats)
}

// renderBlockMap draws one cell per block, lowest address first
func (m Model) renderBlockMap(width int) string {
	if width < 8 {
		width = 8
	}

	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Occupancy"))
	b.WriteString("\n\n")

	used := usedCellStyle.Render("■")
	free := freeCellStyle.Render("·")
	for i, taken := range m.blocks {
		if i > 0 && i%width == 0 {
			b.WriteByte('\n')
		}
		if taken {
			b.WriteString(used)
		} else {
			b.WriteString(free)
		}
	}
	return b.String()
}

// renderStats renders counters plus the recent activity feed
func (m Model) renderStats(height int) string {
	s := m.stats

	line := func(label, value string) string {
		return statsLabelStyle.Render(label+" ") + statsValueStyle.Render(value)
	}

	state := "running"
	if m.paused {
		state = "paused"
	}

	lines := []string{
		paneTitleStyle.Render("Statistics"),
		"",
		line("Used:", fmt.Sprintf("%d/%d blocks", s.UsedBlocks, s.Blocks)),
		line("Largest free run:", fmt.Sprintf("%d blocks", s.LargestFreeRun)),
		line("Acquires:", fmt.Sprintf("%d", s.Acquires)),
		line("Releases:", fmt.Sprintf("%d", s.Releases)),
		line("Exhaustions:", fmt.Sprintf("%d", s.Exhaustions)),
		line("Double releases:", fmt.Sprintf("%d", s.DoubleReleases)),
		line("Hand grants:", fmt.Sprintf("%d", len(m.manual))),
		line("Workload:", fmt.Sprintf("%s, %d ops/tick", state, m.workload.rate)),
		"",
		paneTitleStyle.Render("Activity"),
	}

	// Fill the rest of the pane with the newest events
	room := height - len(lines) - 1
	if room > len(m.events) {
		room = len(m.events)
	}
	if room > 0 {
		for _, ev := range m.events[len(m.events)-room:] {
			lines = append(lines, eventStyle.Render(
				ev.at.Format("15:04:05")+" "+ev.text))
		}
	}

	return strings.Join(lines, "\n")
}

// renderStatus renders the bottom bar: transient feedback or the key hints
func (m Model) renderStatus() string {
	if m.statusMessage != "" {
		return statusStyle.Render(statusMessageStyle.Render(m.statusMessage))
	}
	return statusStyle.Render(
		"space pause · +/- churn · a acquire · r release · c copy · ? help · q quit")
}
