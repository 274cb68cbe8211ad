package tui

import (
	"fmt"
	"time"

	"evmfmt/pkg/numfmt"
	"evmfmt/pkg/utils"

	tea "github.com/charmbracelet/bubbletea"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down":
			if m.selected < len(numfmt.Kinds)-1 {
				m.selected++
			}
			return m, nil
		case "enter":
			return m.copySelected()
		case "ctrl+r":
			if pick := utils.RandomSubset(examples, 1); len(pick) == 1 {
				m.input.SetValue(pick[0])
				m.input.CursorEnd()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) copySelected() (tea.Model, tea.Cmd) {
	r := m.rows()[m.selected]
	switch {
	case r.err != nil || r.output == "":
		m.statusMessage = "Nothing to copy"
	case m.copy(r.output) != nil:
		m.statusMessage = "Failed to copy to clipboard"
	default:
		m.statusMessage = fmt.Sprintf("Copied %s: %s", r.kind, r.output)
	}
	return m, tea.Tick(time.Second*2, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
