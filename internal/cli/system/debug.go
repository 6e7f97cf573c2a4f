package system

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mledan/taskometer-sub001/internal/cli"
	"github.com/mledan/taskometer-sub001/internal/storage"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpTask     *DebugDumpTaskCmd     `cmd:"" help:"Dump task data as JSON."`
	DumpEvent    *DebugDumpEventCmd    `cmd:"" help:"Dump event data as JSON."`
	DumpTemplate *DebugDumpTemplateCmd `cmd:"" help:"Dump template blocks and constraints as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings data as JSON."`
	Explain      *DebugExplainCmd      `cmd:"" help:"Show the scheduler's resolution for a task without saving it."`
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpTaskCmd struct {
	ID string `arg:"" help:"ID of the task to dump."`
}

func (cmd *DebugDumpTaskCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Store.GetTask(cmd.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("task not found: %s", cmd.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}
	return printJSON(task)
}

type DebugDumpEventCmd struct {
	ID string `arg:"" help:"ID of the event to dump."`
}

func (cmd *DebugDumpEventCmd) Run(ctx *cli.Context) error {
	event, err := ctx.Store.GetEvent(cmd.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("event not found: %s", cmd.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	return printJSON(event)
}

type DebugDumpTemplateCmd struct{}

func (cmd *DebugDumpTemplateCmd) Run(ctx *cli.Context) error {
	plan, err := ctx.LoadPlan()
	if err != nil {
		return err
	}
	return printJSON(map[string]any{
		"blocks":      plan.Blocks,
		"constraints": plan.Constraints,
	})
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(settings)
}

type DebugExplainCmd struct {
	ID string `arg:"" help:"ID of the task to resolve."`
}

func (cmd *DebugExplainCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Store.GetTask(cmd.ID)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}
	plan, committed, err := ctx.LoadCommitments()
	if err != nil {
		return err
	}
	now := ctx.CurrentTime()
	res := ctx.PlannerScheduler().Resolve(task, plan.Blocks, committed, plan.Constraints, now)
	return printJSON(map[string]any{
		"task":        task.ID,
		"now":         now,
		"commitments": len(committed),
		"resolution":  res,
	})
}
