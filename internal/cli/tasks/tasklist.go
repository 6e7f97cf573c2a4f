package tasks

import (
	"fmt"
	"slices"

	"github.com/mledan/taskometer-sub001/internal/cli"
	"github.com/mledan/taskometer-sub001/internal/models"
)

type TaskListCmd struct {
	Pending bool `help:"Show only pending tasks."`
	Deleted bool `help:"Include deleted tasks."`
	ShowIDs bool `help:"Show task IDs." name:"show-ids"`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	var tasks []models.Task
	var err error
	if c.Deleted {
		tasks, err = ctx.Store.GetAllTasksIncludingDeleted()
	} else {
		tasks, err = ctx.Store.GetAllTasks()
	}
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}

	if c.Pending {
		tasks = slices.DeleteFunc(tasks, func(t models.Task) bool { return t.Status != models.StatusPending })
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	fmt.Println("Tasks:")
	for _, task := range tasks {
		status := string(task.Status)
		if task.DeletedAt != nil {
			status = "deleted"
		}

		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", task.ID)
		}

		typ := task.ActivityType
		if typ == "" {
			typ = "-"
		}
		fmt.Printf("  [%s] %s%s - %dm (%s, %s priority, %s)\n",
			status, task.Name, idStr, task.DurationMin, typ, task.Priority, DescribePlacement(task.Placement))
		fmt.Printf("      %s\n", cli.FormatPlacement(task))
	}

	return nil
}
