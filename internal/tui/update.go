package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mledan/taskometer-sub001/internal/cli"
	"github.com/mledan/taskometer-sub001/internal/cli/schedule"
	"github.com/mledan/taskometer-sub001/internal/logger"
	"github.com/mledan/taskometer-sub001/internal/models"
)

type scheduledMsg struct {
	result models.BatchResult
	err    error
}

type completedMsg struct {
	name string
	err  error
}

func scheduleCmd(ctx *cli.Context) tea.Cmd {
	return func() tea.Msg {
		result, err := (&schedule.ScheduleCmd{}).Execute(ctx)
		return scheduledMsg{result: result, err: err}
	}
}

func completeCmd(ctx *cli.Context, id string) tea.Cmd {
	return func() tea.Msg {
		task, err := ctx.Store.GetTask(id)
		if err != nil {
			return completedMsg{err: err}
		}
		task.Status = models.StatusCompleted
		return completedMsg{name: task.Name, err: ctx.Store.UpdateTask(task)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		// title, status line, help and padding
		m.table.SetHeight(max(msg.Height-8, 3))
		return m, nil

	case scheduledMsg:
		if msg.err != nil {
			logger.Error("Agenda scheduling failed", "error", msg.err)
			m.err = msg.err
			return m, nil
		}
		if len(msg.result.Tasks) == 0 {
			m.status = "Nothing to schedule."
		} else {
			m.status = fmt.Sprintf("Scheduled %d, unscheduled %d.", msg.result.Scheduled, msg.result.Unscheduled)
		}
		m.err = m.reload()
		return m, nil

	case completedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = fmt.Sprintf("Completed %s.", msg.name)
		m.err = m.reload()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Schedule):
			m.status = "Scheduling..."
			m.err = nil
			return m, scheduleCmd(m.ctx)
		case key.Matches(msg, m.keys.Complete):
			e, ok := m.Selected()
			if !ok || e.TaskID == "" {
				m.status = "Select a task to complete."
				return m, nil
			}
			return m, completeCmd(m.ctx, e.TaskID)
		case key.Matches(msg, m.keys.Refresh):
			m.err = m.reload()
			m.status = "Refreshed."
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}
