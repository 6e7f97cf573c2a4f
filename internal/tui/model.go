// Package tui implements the interactive agenda: upcoming placements in a
// table, with the batch scheduler one key away.
package tui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mledan/taskometer-sub001/internal/cli"
	"github.com/mledan/taskometer-sub001/internal/constants"
	"github.com/mledan/taskometer-sub001/internal/models"
)

// Entry is one agenda line. TaskID is empty for events.
type Entry struct {
	TaskID   string
	Name     string
	Kind     string
	Priority string
	Status   string
	Start    *time.Time
	End      *time.Time
}

type Model struct {
	ctx      *cli.Context
	keys     KeyMap
	help     help.Model
	table    table.Model
	entries  []Entry
	status   string
	warning  string
	err      error
	quitting bool
	width    int
	height   int
}

var columns = []table.Column{
	{Title: "When", Width: 22},
	{Title: "Task", Width: 28},
	{Title: "Type", Width: 12},
	{Title: "Priority", Width: 8},
	{Title: "Status", Width: 24},
}

func NewModel(ctx *cli.Context) (Model, error) {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	m := Model{
		ctx:   ctx,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		table: t,
	}
	if err := m.reload(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Entries returns the rows currently shown, in display order.
func (m Model) Entries() []Entry {
	return m.entries
}

// Selected returns the entry under the cursor.
func (m Model) Selected() (Entry, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.entries) {
		return Entry{}, false
	}
	return m.entries[i], true
}

func (m *Model) reload() error {
	plan, err := m.ctx.LoadPlan()
	if err != nil {
		return err
	}
	events, err := m.ctx.Store.GetEvents()
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}

	m.entries = BuildEntries(plan.Tasks, events, m.ctx.Location(), m.ctx.CurrentTime())

	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{formatWhen(e), e.Name, e.Kind, e.Priority, e.Status}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}

	m.warning = ""
	if len(plan.Blocks) == 0 {
		m.warning = "Template has no blocks: import one with 'template import'."
	}
	return nil
}

// BuildEntries lists open tasks and upcoming events. Placed items come first
// in time order, followed by unscheduled tasks by name.
func BuildEntries(tasks []models.Task, events []models.Event, loc *time.Location, now time.Time) []Entry {
	var placed, unplaced []Entry

	for _, t := range tasks {
		if t.IsCompleted() || t.DeletedAt != nil {
			continue
		}
		e := Entry{
			TaskID:   t.ID,
			Name:     t.Name,
			Kind:     orDash(t.ActivityType),
			Priority: string(t.Priority),
		}
		if t.ScheduledAt == nil {
			e.Status = "unscheduled"
			if t.FailureReason != "" {
				e.Status = string(t.FailureReason)
			}
			if t.Status == models.StatusPaused {
				e.Status = string(models.StatusPaused)
			}
			unplaced = append(unplaced, e)
			continue
		}
		end := t.ScheduledAt.Add(t.Duration())
		if !end.After(now) {
			continue
		}
		start := t.ScheduledAt.In(loc)
		end = end.In(loc)
		e.Start, e.End = &start, &end
		e.Status = string(t.Status)
		if t.Confidence > 0 {
			e.Status = fmt.Sprintf("%s (%d%%)", t.Status, t.Confidence)
		}
		placed = append(placed, e)
	}

	for _, ev := range events {
		start, end, err := ev.Interval(loc)
		if err != nil || !end.After(now) {
			continue
		}
		placed = append(placed, Entry{
			Name:     ev.Name,
			Kind:     "event",
			Priority: "-",
			Status:   "fixed",
			Start:    &start,
			End:      &end,
		})
	}

	slices.SortStableFunc(placed, func(a, b Entry) int {
		if c := a.Start.Compare(*b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	slices.SortStableFunc(unplaced, func(a, b Entry) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return append(placed, unplaced...)
}

func formatWhen(e Entry) string {
	if e.Start == nil {
		return "-"
	}
	return fmt.Sprintf("%s %s-%s",
		e.Start.Format("Mon 01-02"),
		e.Start.Format(constants.TimeFormat),
		e.End.Format(constants.TimeFormat))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
