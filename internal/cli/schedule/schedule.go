package schedule

import (
	"fmt"

	"github.com/mledan/taskometer-sub001/internal/cli"
	"github.com/mledan/taskometer-sub001/internal/errors"
	"github.com/mledan/taskometer-sub001/internal/models"
)

type ScheduleCmd struct {
	All    bool `help:"Reschedule every pending task, not only unscheduled ones."`
	DryRun bool `help:"Show the result without saving it." name:"dry-run"`
}

// Select returns the tasks a run should (re)place.
func (c *ScheduleCmd) Select(tasks []models.Task) []models.Task {
	var selected []models.Task
	for _, t := range tasks {
		if !t.Schedulable() {
			continue
		}
		if c.All || !t.IsScheduled() {
			selected = append(selected, t)
		}
	}
	return selected
}

// Execute places the selected tasks and saves them unless DryRun is set.
func (c *ScheduleCmd) Execute(ctx *cli.Context) (models.BatchResult, error) {
	plan, committed, err := ctx.LoadCommitments()
	if err != nil {
		return models.BatchResult{}, err
	}

	tasks := c.Select(plan.Tasks)
	if len(tasks) == 0 {
		return models.BatchResult{}, nil
	}

	result := ctx.PlannerScheduler().ScheduleAll(tasks, plan.Blocks, committed, plan.Constraints, ctx.CurrentTime())
	if c.DryRun {
		return result, nil
	}
	if err := ctx.Store.UpdateTasks(result.Tasks); err != nil {
		return result, fmt.Errorf("failed to save schedule: %w", err)
	}
	return result, nil
}

func (c *ScheduleCmd) Run(ctx *cli.Context) error {
	if blocks, err := ctx.Store.GetTemplate(); err == nil && len(blocks) == 0 {
		fmt.Println("Warning: the template has no blocks; only explicit placements can succeed.")
	}

	result, err := c.Execute(ctx)
	if err != nil {
		return err
	}
	if len(result.Tasks) == 0 {
		fmt.Println("Nothing to schedule.")
		return nil
	}

	for _, t := range result.Tasks {
		if t.IsScheduled() {
			fmt.Printf("  %-30s %s\n", t.Name, cli.FormatPlacement(t))
		} else {
			fmt.Printf("  %s\n", errors.FormatUnplaced(t.Name, string(t.FailureReason)))
		}
	}
	fmt.Printf("\nScheduled %d, unscheduled %d.\n", result.Scheduled, result.Unscheduled)

	if c.DryRun {
		fmt.Println("Dry run: nothing saved.")
	}
	return nil
}

type PlaceCmd struct {
	ID     string `arg:"" help:"Task ID to place."`
	DryRun bool   `help:"Show the result without saving it." name:"dry-run"`
}

func (c *PlaceCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Store.GetTask(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find task with ID %s: %w", c.ID, err)
	}

	plan, committed, err := ctx.LoadCommitments()
	if err != nil {
		return err
	}

	res := ctx.PlannerScheduler().Resolve(task, plan.Blocks, committed, plan.Constraints, ctx.CurrentTime())
	if res.FailureReason == models.FailureNotSchedulable {
		return fmt.Errorf("task %s is %s and cannot be scheduled", task.Name, task.Status)
	}
	updated := task.WithResolution(res)

	fmt.Printf("%s: %s\n", updated.Name, cli.FormatPlacement(updated))
	if res.OK() {
		fmt.Printf("  block: %s, confidence: %d%%\n", blockLabel(updated.AssignedBlockID), updated.Confidence)
	}

	if c.DryRun {
		return nil
	}
	if err := ctx.Store.UpdateTask(updated); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

func blockLabel(id string) string {
	if id == "" {
		return "none"
	}
	return id
}
