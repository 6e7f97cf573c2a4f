package tasks

import (
	"fmt"

	"github.com/mledan/taskometer-sub001/internal/cli"
	"github.com/mledan/taskometer-sub001/internal/models"
)

type TaskEditCmd struct {
	ID       string  `arg:"" help:"Task ID."`
	Name     *string `help:"New task name."`
	Duration *int    `short:"d" help:"New duration in minutes."`
	Type     *string `short:"t" help:"New activity type."`
	Priority *string `short:"p" help:"New priority (high|medium|low)."`
	Auto     bool    `help:"Reset placement to automatic."`
	Pause    bool    `help:"Pause the task so scheduling skips it."`
	Resume   bool    `help:"Resume a paused task."`

	PlacementFlags `embed:""`
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Store.GetTask(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find task: %w", err)
	}

	// Any change to what or when invalidates the current placement.
	replan := false

	if c.Name != nil {
		task.Name = *c.Name
	}
	if c.Duration != nil {
		if *c.Duration <= 0 {
			return fmt.Errorf("duration must be positive")
		}
		task.DurationMin = *c.Duration
		replan = true
	}
	if c.Type != nil {
		task.ActivityType = *c.Type
		replan = true
	}
	if c.Priority != nil {
		p := models.Priority(*c.Priority)
		switch p {
		case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
		default:
			return fmt.Errorf("priority must be high, medium or low")
		}
		task.Priority = p
	}

	if c.Auto && c.set() {
		return fmt.Errorf("--auto cannot be combined with placement flags")
	}
	if c.Auto {
		task.Placement = models.Placement{Mode: models.PlacementAuto}
		replan = true
	} else if c.set() {
		p, err := c.Placement()
		if err != nil {
			return err
		}
		task.Placement = p
		replan = true
	}

	if c.Pause && c.Resume {
		return fmt.Errorf("--pause and --resume are mutually exclusive")
	}
	if c.Pause {
		task.Status = models.StatusPaused
	}
	if c.Resume && task.Status == models.StatusPaused {
		task.Status = models.StatusPending
	}

	if replan {
		task = task.Unscheduled()
	}

	if err := ctx.Store.UpdateTask(task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	fmt.Printf("Updated task: %s\n", task.Name)
	if replan {
		fmt.Println("  Placement cleared; run 'taskometer schedule' to place it again.")
	}
	return nil
}
