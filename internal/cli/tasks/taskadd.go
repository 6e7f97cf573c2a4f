package tasks

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/mledan/taskometer-sub001/internal/cli"
	"github.com/mledan/taskometer-sub001/internal/models"
)

type TaskAddCmd struct {
	Name        string `arg:"" optional:"" help:"Task name."`
	Duration    int    `short:"d" help:"Duration in minutes (defaults to the default_duration_min setting)."`
	Type        string `short:"t" help:"Activity type, matched against template blocks."`
	Priority    string `short:"p" help:"Priority (high|medium|low)." default:"medium" enum:"high,medium,low"`
	Interactive bool   `short:"i" help:"Fill in the task with an interactive form."`
	Schedule    bool   `help:"Place the task right away."`

	PlacementFlags `embed:""`
}

// TaskForm holds the string values edited by the interactive form.
type TaskForm struct {
	Name     string
	Type     string
	Duration string
	Priority models.Priority
}

// NewTaskForm builds the interactive task form.
func NewTaskForm(fm *TaskForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("task name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Activity type").
				Description("Matched against template block types, e.g. 'work'").
				Value(&fm.Type),
			huh.NewInput().
				Title("Duration (min)").
				Value(&fm.Duration).
				Validate(func(s string) error {
					i, err := strconv.Atoi(s)
					if err != nil {
						return err
					}
					if i <= 0 {
						return fmt.Errorf("duration must be a positive number of minutes")
					}
					return nil
				}),
			huh.NewSelect[models.Priority]().
				Title("Priority").
				Options(
					huh.NewOption("High", models.PriorityHigh),
					huh.NewOption("Medium", models.PriorityMedium),
					huh.NewOption("Low", models.PriorityLow),
				).
				Value(&fm.Priority),
		),
	).WithTheme(huh.ThemeDracula())
}

func (c *TaskAddCmd) Validate() error {
	if c.Duration < 0 {
		return fmt.Errorf("duration must be greater than zero")
	}
	if !c.Interactive && strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("task name is required unless --interactive is set")
	}
	_, err := c.Placement()
	return err
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	duration := c.Duration
	if duration == 0 {
		duration = settings.DefaultDurationMin
	}

	if c.Interactive {
		fm := &TaskForm{
			Name:     c.Name,
			Type:     c.Type,
			Duration: strconv.Itoa(duration),
			Priority: models.Priority(c.Priority),
		}
		if err := NewTaskForm(fm).Run(); err != nil {
			return fmt.Errorf("form aborted: %w", err)
		}
		c.Name = strings.TrimSpace(fm.Name)
		c.Type = strings.TrimSpace(fm.Type)
		c.Priority = string(fm.Priority)
		duration, _ = strconv.Atoi(fm.Duration)
	}

	placement, err := c.Placement()
	if err != nil {
		return err
	}

	task := models.Task{
		ID:           uuid.New().String(),
		Name:         c.Name,
		ActivityType: c.Type,
		DurationMin:  duration,
		Priority:     models.Priority(c.Priority),
		Status:       models.StatusPending,
		Placement:    placement,
		CreatedAt:    time.Now().UTC(),
	}

	if c.Schedule {
		plan, committed, err := ctx.LoadCommitments()
		if err != nil {
			return err
		}
		res := ctx.PlannerScheduler().Resolve(task, plan.Blocks, committed, plan.Constraints, ctx.CurrentTime())
		task = task.WithResolution(res)
	}

	if err := ctx.Store.AddTask(task); err != nil {
		return err
	}

	fmt.Printf("Added task: %s (ID: %s)\n", task.Name, task.ID)
	if c.Schedule {
		fmt.Printf("  %s\n", cli.FormatPlacement(task))
	}
	return nil
}
