package cli

import (
	"fmt"
	"time"

	"github.com/mledan/taskometer-sub001/internal/constants"
	"github.com/mledan/taskometer-sub001/internal/logger"
	"github.com/mledan/taskometer-sub001/internal/models"
	"github.com/mledan/taskometer-sub001/internal/scheduler"
	"github.com/mledan/taskometer-sub001/internal/storage"
	"github.com/mledan/taskometer-sub001/internal/utils"
)

type Context struct {
	Store     storage.Provider
	Scheduler *scheduler.Scheduler

	// Now overrides the wall clock when set (--now, tests).
	Now *time.Time
}

// Location returns the configured timezone, falling back to local time.
func (c *Context) Location() *time.Location {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return time.Local
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		logger.Warn("Invalid timezone in settings, using local time", "timezone", settings.Timezone, "error", err)
		return time.Local
	}
	return loc
}

// CurrentTime returns "now" in the configured timezone.
func (c *Context) CurrentTime() time.Time {
	loc := c.Location()
	if c.Now != nil {
		return c.Now.In(loc)
	}
	return time.Now().In(loc)
}

// PlannerScheduler returns the scheduler tuned by the persisted settings.
func (c *Context) PlannerScheduler() *scheduler.Scheduler {
	if c.Scheduler != nil {
		return c.Scheduler
	}
	settings, err := c.Store.GetSettings()
	if err != nil {
		return scheduler.New()
	}
	return scheduler.FromSettings(settings)
}

// Plan is everything the scheduler needs from storage.
type Plan struct {
	Blocks      []models.TimeBlock
	Constraints models.ConstraintSet
	Tasks       []models.Task
}

// Commitments returns the scheduled tasks plus a synthetic task per event.
func (p Plan) Commitments(events []models.Event, loc *time.Location) []models.Task {
	committed := make([]models.Task, 0, len(p.Tasks)+len(events))
	for _, t := range p.Tasks {
		if t.IsScheduled() && !t.IsCompleted() {
			committed = append(committed, t)
		}
	}
	for _, e := range events {
		ct, err := e.AsCommitment(loc)
		if err != nil {
			logger.Warn("Skipping malformed event", "id", e.ID, "error", err)
			continue
		}
		committed = append(committed, ct)
	}
	return committed
}

// LoadPlan reads the template, constraints and live tasks.
func (c *Context) LoadPlan() (Plan, error) {
	blocks, err := c.Store.GetTemplate()
	if err != nil {
		return Plan{}, fmt.Errorf("failed to load template: %w", err)
	}
	constraints, err := c.Store.GetConstraints()
	if err != nil {
		return Plan{}, fmt.Errorf("failed to load constraints: %w", err)
	}
	tasks, err := c.Store.GetAllTasks()
	if err != nil {
		return Plan{}, fmt.Errorf("failed to load tasks: %w", err)
	}
	return Plan{Blocks: blocks, Constraints: constraints, Tasks: tasks}, nil
}

// LoadCommitments returns the plan and the commitments that occupy time.
func (c *Context) LoadCommitments() (Plan, []models.Task, error) {
	plan, err := c.LoadPlan()
	if err != nil {
		return Plan{}, nil, err
	}
	events, err := c.Store.GetEvents()
	if err != nil {
		return Plan{}, nil, fmt.Errorf("failed to load events: %w", err)
	}
	return plan, plan.Commitments(events, c.Location()), nil
}

// FormatPlacement renders a task's placement or its failure reason.
func FormatPlacement(t models.Task) string {
	if t.ScheduledAt != nil {
		end := t.ScheduledAt.Add(t.Duration())
		return fmt.Sprintf("%s-%s", t.ScheduledAt.Format(constants.DateTimeFormat), end.Format(constants.TimeFormat))
	}
	if t.FailureReason != "" {
		return "unscheduled (" + string(t.FailureReason) + ")"
	}
	return "unscheduled"
}
