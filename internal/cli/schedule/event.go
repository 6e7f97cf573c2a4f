package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mledan/taskometer-sub001/internal/cli"
	"github.com/mledan/taskometer-sub001/internal/constants"
	"github.com/mledan/taskometer-sub001/internal/models"
	"github.com/mledan/taskometer-sub001/internal/utils"
)

type EventAddCmd struct {
	Name   string `arg:"" help:"Event name."`
	Date   string `help:"Event date (YYYY-MM-DD)." required:""`
	Start  string `short:"s" help:"Start time (HH:MM)." required:""`
	End    string `short:"e" help:"End time (HH:MM); earlier than start means the next day." required:""`
	DryRun bool   `help:"Show what would move without saving." name:"dry-run"`
}

func (c *EventAddCmd) Validate() error {
	if _, err := utils.ParseDateInLocation(c.Date, time.UTC); err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", c.Date)
	}
	start, err := models.ParseTimeOfDay(c.Start)
	if err != nil {
		return err
	}
	end, err := models.ParseTimeOfDay(c.End)
	if err != nil {
		return err
	}
	if start == end {
		return fmt.Errorf("event start and end must differ")
	}
	return nil
}

func (c *EventAddCmd) Run(ctx *cli.Context) error {
	start, err := models.ParseTimeOfDay(c.Start)
	if err != nil {
		return err
	}
	end, err := models.ParseTimeOfDay(c.End)
	if err != nil {
		return err
	}
	event := models.Event{
		ID:        uuid.New().String(),
		Name:      c.Name,
		Date:      c.Date,
		Start:     start,
		End:       end,
		CreatedAt: time.Now().UTC(),
	}

	plan, committed, err := ctx.LoadCommitments()
	if err != nil {
		return err
	}

	report := ctx.PlannerScheduler().ApplyEvent(event, committed, plan.Blocks, plan.Constraints, ctx.CurrentTime())
	if report.FailureReason != "" {
		return fmt.Errorf("event not applied: %s", report.FailureReason)
	}
	PrintReport(report)

	if c.DryRun {
		fmt.Println("Dry run: nothing saved.")
		return nil
	}
	if err := ctx.Store.ApplyEvent(event, report.Updated); err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	fmt.Printf("Added event: %s (ID: %s)\n", event.Name, event.ID)
	return nil
}

// PrintReport lists what an event displaced and where it went.
func PrintReport(report models.DisplacementReport) {
	e := report.Event
	fmt.Printf("Event %s on %s %s-%s\n", e.Name, e.Date, e.Start, e.End)
	if len(report.DisplacedTasks) == 0 {
		fmt.Println("  No tasks displaced.")
		return
	}

	names := make(map[string]string, len(report.DisplacedTasks))
	for _, t := range report.DisplacedTasks {
		names[t.ID] = t.Name
	}
	for _, r := range report.Rescheduled {
		if r.NewScheduledAt == nil {
			fmt.Printf("  ✗ %s: %s\n", names[r.TaskID], r.FailureReason)
			continue
		}
		fmt.Printf("  → %s: moved to %s\n", names[r.TaskID], r.NewScheduledAt.Format(constants.DateTimeFormat))
	}
	if n := len(report.Unrepaired()); n > 0 {
		fmt.Printf("%d task(s) could not be placed again; run 'taskometer schedule' after freeing time.\n", n)
	}
}

type EventListCmd struct {
	ShowIDs bool `help:"Show event IDs." name:"show-ids"`
}

func (c *EventListCmd) Run(ctx *cli.Context) error {
	events, err := ctx.Store.GetEvents()
	if err != nil {
		return fmt.Errorf("failed to get events: %w", err)
	}
	if len(events) == 0 {
		fmt.Println("No events found")
		return nil
	}
	for _, e := range events {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", e.ID)
		}
		fmt.Printf("  %s %s-%s  %s%s\n", e.Date, e.Start, e.End, e.Name, idStr)
	}
	return nil
}

type EventDeleteCmd struct {
	ID string `arg:"" help:"Event ID to delete."`
}

func (c *EventDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.DeleteEvent(c.ID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	fmt.Printf("Deleted event with ID: %s\n", c.ID)
	return nil
}
