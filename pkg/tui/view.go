package tui

import (
	"fmt"
	"strings"

	"evmfmt/pkg/utils"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m model) View() string {
	var lines []string
	for i, r := range m.rows() {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}

		var value string
		switch {
		case r.err != nil:
			value = errStyle.Render(utils.TruncateString(r.err.Error(), m.maxValueWidth()))
		case r.output == "":
			value = subtleStyle.Render("-")
		case i == m.selected:
			value = selectedStyle.Render(utils.TruncateString(r.output, m.maxValueWidth()))
		default:
			value = utils.TruncateString(r.output, m.maxValueWidth())
		}
		lines = append(lines, cursor+kindStyle.Render(string(r.kind))+value)
	}

	status := subtleStyle.Render("↑/↓ select • enter copy • ctrl+r example • esc quit")
	if m.statusMessage != "" {
		status = infoStyle.Render(m.statusMessage)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("evmfmt %s", Version)),
		"",
		m.input.View(),
		"",
		boxStyle.Render(strings.Join(lines, "\n")),
		status,
	)
}

func (m model) maxValueWidth() int {
	if m.width <= 0 {
		return 70
	}
	w := m.width - 20
	if w < 10 {
		return 10
	}
	return w
}

var _ tea.Model = model{}
