package tui

import (
	"strings"

	"evmfmt/pkg/numfmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Version is set by Start()
var Version = "dev"

type clearStatusMsg struct{}

// examples feed ctrl+r.
var examples = []string{
	"2.5k", "1,234.5", "-1.2m", "0.005", "999999", "3.7b", "1t",
	"0xABCDEF", "-1", "1500000000000000000",
}

// row is one rendering of the current input.
type row struct {
	kind   numfmt.Kind
	output string
	err    error
}

type model struct {
	formatter     *numfmt.Formatter
	parser        *numfmt.Parser
	input         textinput.Model
	selected      int
	statusMessage string
	width         int
	copy          func(string) error
}

func initialModel(f *numfmt.Formatter, p *numfmt.Parser) model {
	ti := textinput.New()
	ti.Placeholder = "2.5k, 1234.5, 0xABC, -1 ..."
	ti.CharLimit = 128
	ti.Width = 40
	ti.Focus()

	return model{
		formatter: f,
		parser:    p,
		input:     ti,
		copy:      clipboard.WriteAll,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// rows renders the input in every kind. An empty input yields empty rows.
func (m model) rows() []row {
	value := strings.TrimSpace(m.input.Value())
	rows := make([]row, 0, len(numfmt.Kinds))
	for _, k := range numfmt.Kinds {
		r := row{kind: k}
		if value != "" {
			r.output, r.err = numfmt.Render(m.formatter, m.parser, k, value)
		}
		rows = append(rows, r)
	}
	return rows
}
