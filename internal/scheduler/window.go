package scheduler

import (
	"iter"
	"time"

	"github.com/mledan/taskometer-sub001/internal/models"
	"github.com/mledan/taskometer-sub001/internal/utils"
)

// Window is a concrete half-open [Start, End) span.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Fits reports whether [start, start+d) lies inside the window.
func (w Window) Fits(start time.Time, d time.Duration) bool {
	return !start.Before(w.Start) && !start.Add(d).After(w.End)
}

// Windows expands a block into one window per day for lookahead days starting
// today, skipping windows that have already ended. Blocks whose end is not
// after their start end on the following day.
func Windows(block models.TimeBlock, now time.Time, lookahead int) iter.Seq[Window] {
	return func(yield func(Window) bool) {
		today := utils.StartOfDay(now)
		startBase := block.Start.On(today)
		endBase := block.End.On(today)
		if !endBase.After(startBase) {
			endBase = endBase.AddDate(0, 0, 1)
		}

		for d := 0; d < lookahead; d++ {
			w := Window{
				Start: startBase.AddDate(0, 0, d),
				End:   endBase.AddDate(0, 0, d),
			}
			if !w.End.After(now) {
				continue
			}
			if !yield(w) {
				return
			}
		}
	}
}
