package scheduler

import (
	"time"

	"github.com/mledan/taskometer-sub001/internal/logger"
	"github.com/mledan/taskometer-sub001/internal/models"
)

// ScheduleAll places tasks one at a time, highest priority and then shortest
// first, each against the commitments plus everything placed earlier in the
// same call. Completed and paused tasks pass through untouched. The returned
// tasks keep the input order.
//
// Tasks with equal priority and duration are placed in input order; a
// different input order may yield a different, equally valid, schedule.
func (s *Scheduler) ScheduleAll(tasks []models.Task, blocks []models.TimeBlock, committed []models.Task, constraints models.ConstraintSet, now time.Time) models.BatchResult {
	result := models.BatchResult{Tasks: make([]models.Task, len(tasks))}

	// Tasks being placed release their previous slots.
	placing := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.Schedulable() && !t.IsEventCommitment() {
			placing[t.ID] = true
		}
	}

	working := make([]models.Task, 0, len(committed)+len(tasks))
	for _, t := range committed {
		if !placing[t.ID] {
			working = append(working, t)
		}
	}
	for _, t := range tasks {
		if !placing[t.ID] && t.IsScheduled() {
			working = append(working, t)
		}
	}

	for _, i := range placementOrder(tasks) {
		task := tasks[i]
		if !placing[task.ID] {
			result.Tasks[i] = task.Clone()
			continue
		}

		res := s.Resolve(task, blocks, working, constraints, now)
		updated := task.WithResolution(res)
		result.Tasks[i] = updated

		if res.OK() {
			working = append(working, updated)
			result.Scheduled++
		} else {
			result.Unscheduled++
		}
	}

	logger.Debug("Batch scheduling finished", "scheduled", result.Scheduled, "unscheduled", result.Unscheduled)
	return result
}
