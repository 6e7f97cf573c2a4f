package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mledan/taskometer-sub001/internal/cli"
	"github.com/mledan/taskometer-sub001/internal/tui"
)

type AgendaCmd struct{}

func (c *AgendaCmd) Run(ctx *cli.Context) error {
	m, err := tui.NewModel(ctx)
	if err != nil {
		return fmt.Errorf("failed to load agenda: %w", err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("agenda exited with error: %w", err)
	}
	return nil
}
