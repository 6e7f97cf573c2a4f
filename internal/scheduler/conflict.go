package scheduler

import (
	"time"

	"github.com/mledan/taskometer-sub001/internal/models"
	"github.com/mledan/taskometer-sub001/internal/utils"
)

// Conflicts reports whether [start, end) overlaps any scheduled, non-completed
// task. The task with ID ignoreID is skipped so a task never collides with its
// own previous placement.
func Conflicts(start, end time.Time, tasks []models.Task, ignoreID string) bool {
	for _, t := range tasks {
		if ignoreID != "" && t.ID == ignoreID {
			continue
		}
		if t.IsCompleted() || t.DeletedAt != nil {
			continue
		}
		s, e, ok := t.Interval()
		if !ok {
			continue
		}
		if utils.Overlaps(start, end, s, e) {
			return true
		}
	}
	return false
}
