package scheduler

import (
	"github.com/mledan/taskometer-sub001/internal/models"
	"github.com/mledan/taskometer-sub001/internal/utils"
)

// Intersect narrows w by an activity type's weekday and preferred-time
// constraint. It returns false when the day is not allowed or nothing remains.
func Intersect(w Window, c *models.TaskTypeConstraint) (Window, bool) {
	if c == nil {
		return w, w.End.After(w.Start)
	}

	if c.AllowedWeekdays != nil && !c.AllowedWeekdays.Has(w.Start.Weekday()) {
		return Window{}, false
	}

	date := utils.StartOfDay(w.Start)
	start, end := w.Start, w.End

	if c.PreferredStart != nil {
		if ps := c.PreferredStart.On(date); ps.After(start) {
			start = ps
		}
	}

	if c.PreferredEnd != nil {
		pe := c.PreferredEnd.On(date)
		// overnight preferred range
		if !pe.After(start) {
			pe = pe.AddDate(0, 0, 1)
		}
		if pe.Before(end) {
			end = pe
		}
	}

	if !end.After(start) {
		return Window{}, false
	}
	return Window{Start: start, End: end}, true
}
