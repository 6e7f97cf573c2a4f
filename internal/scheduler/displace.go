package scheduler

import (
	"time"

	"github.com/mledan/taskometer-sub001/internal/logger"
	"github.com/mledan/taskometer-sub001/internal/models"
	"github.com/mledan/taskometer-sub001/internal/utils"
)

// ApplyEvent inserts a fixed one-off event, evicts every committed task it
// overlaps and tries to place each evicted task again after the event ends.
// The event always wins; tasks that cannot be re-placed are reported with a
// nil NewScheduledAt. A malformed event displaces nothing and the report
// carries FailureInvalidEvent.
func (s *Scheduler) ApplyEvent(event models.Event, committed []models.Task, blocks []models.TimeBlock, constraints models.ConstraintSet, now time.Time) models.DisplacementReport {
	report := models.DisplacementReport{Event: event}

	loc := now.Location()
	eventStart, eventEnd, err := event.Interval(loc)
	if err != nil {
		logger.Warn("Skipping displacement for malformed event", "event", event.ID, "error", err)
		report.FailureReason = models.FailureInvalidEvent
		return report
	}
	eventCommitment, _ := event.AsCommitment(loc)

	var displaced []models.Task
	working := make([]models.Task, 0, len(committed)+1)
	for _, t := range committed {
		if overlapsEvent(t, eventStart, eventEnd) {
			displaced = append(displaced, t)
			report.DisplacedTasks = append(report.DisplacedTasks, t.Clone())
			continue
		}
		working = append(working, t)
	}
	working = append(working, eventCommitment)

	repairNow := utils.MaxTime(now, eventEnd)
	for _, i := range placementOrder(displaced) {
		task := displaced[i]

		// The explicit slot, if any, is what the event took.
		candidate := task.Unscheduled()
		candidate.Placement = models.Placement{Mode: models.PlacementAuto}
		// A paused task keeps a slot to resume into; it moves like any other.
		paused := candidate.Status == models.StatusPaused
		if paused {
			candidate.Status = models.StatusPending
		}

		res := s.Resolve(candidate, blocks, working, constraints, repairNow)
		updated := candidate.WithResolution(res)
		if paused {
			updated.Status = models.StatusPaused
		}
		if res.OK() {
			working = append(working, updated)
		}

		report.Rescheduled = append(report.Rescheduled, models.Rescheduled{
			TaskID:         task.ID,
			NewScheduledAt: cloneTime(updated.ScheduledAt),
			FailureReason:  updated.FailureReason,
		})
		report.Updated = append(report.Updated, updated)
	}

	logger.Debug("Applied event", "event", event.ID, "displaced", len(report.DisplacedTasks),
		"unrepaired", len(report.Unrepaired()))
	return report
}

func overlapsEvent(t models.Task, eventStart, eventEnd time.Time) bool {
	if t.IsCompleted() || t.IsEventCommitment() || t.DeletedAt != nil {
		return false
	}
	start, end, ok := t.Interval()
	return ok && utils.Overlaps(start, end, eventStart, eventEnd)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
