package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/mledan/taskometer-sub001/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	title := titleStyle.Render(fmt.Sprintf("Agenda  %s", m.ctx.CurrentTime().Format(constants.DateTimeFormat)))

	var body string
	if len(m.entries) == 0 {
		body = "\n  No tasks yet.\n  Add one with 'task add'."
	} else {
		body = m.table.View()
	}

	var footer string
	switch {
	case m.err != nil:
		footer = dangerStyle.Render("Error: " + m.err.Error())
	case m.warning != "":
		footer = warningStyle.Render(m.warning)
	}
	if m.status != "" {
		footer = lipgloss.JoinVertical(lipgloss.Left, statusStyle.Render(m.status), footer)
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		body,
		footer,
		m.help.View(m.keys),
	))
}
