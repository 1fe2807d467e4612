package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MainViewModel wraps the live view for use as overlay background
type MainViewModel struct {
	model *Model
}

func NewMainViewModel(m *Model) *MainViewModel {
	return &MainViewModel{model: m}
}

func (m *MainViewModel) Init() tea.Cmd {
	return nil
}

func (m *MainViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Updates are handled by the parent Model; this just provides View()
	return m, nil
}

func (m *MainViewModel) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.model.renderHeader(),
		m.model.renderContent(),
		m.model.renderStatus(),
	)
}

// HelpModel renders the keybinding reference as overlay foreground
type HelpModel struct {
	keys KeyMap
}

func NewHelpModel(keys KeyMap) *HelpModel {
	return &HelpModel{keys: keys}
}

func (h *HelpModel) Init() tea.Cmd {
	return nil
}

func (h *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return h, nil
}

func (h *HelpModel) View() string {
	rows := []string{helpTitleStyle.Render("Keyboard Shortcuts"), ""}
	for _, group := range h.keys.FullHelp() {
		for _, binding := range group {
			rows = append(rows,
				helpKeyStyle.Render(binding.Help().Key)+"  "+
					helpDescStyle.Render(binding.Help().Desc))
		}
		rows = append(rows, "")
	}
	rows = append(rows, helpDescStyle.Render("esc/? to close"))
	return helpBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
