package tui

import (
	"evmfmt/pkg/numfmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Start runs the interactive playground until the user quits.
func Start(f *numfmt.Formatter, p *numfmt.Parser, version string) error {
	Version = version
	prog := tea.NewProgram(
		initialModel(f, p),
		tea.WithAltScreen(),
	)
	_, err := prog.Run()
	return err
}
