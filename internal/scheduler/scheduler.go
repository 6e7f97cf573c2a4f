// Package scheduler places tasks into the concrete windows of a recurring
// daily template. Every entry point takes "now" explicitly and returns new
// task values; inputs are never modified.
package scheduler

import (
	"cmp"
	"slices"

	"github.com/mledan/taskometer-sub001/internal/constants"
	"github.com/mledan/taskometer-sub001/internal/models"
)

// Config tunes the search horizon. Zero values fall back to defaults.
type Config struct {
	LookaheadDays  int
	GranularityMin int
}

type Scheduler struct {
	lookahead   int
	granularity int
}

func New() *Scheduler {
	return NewWithConfig(Config{})
}

func NewWithConfig(cfg Config) *Scheduler {
	s := &Scheduler{
		lookahead:   cfg.LookaheadDays,
		granularity: cfg.GranularityMin,
	}
	if s.lookahead <= 0 {
		s.lookahead = constants.DefaultLookaheadDays
	}
	if s.granularity <= 0 {
		s.granularity = constants.DefaultGranularityMin
	}
	return s
}

// FromSettings builds a Scheduler from persisted settings.
func FromSettings(settings models.Settings) *Scheduler {
	return NewWithConfig(Config{
		LookaheadDays:  settings.LookaheadDays,
		GranularityMin: settings.GranularityMin,
	})
}

func (s *Scheduler) LookaheadDays() int  { return s.lookahead }
func (s *Scheduler) GranularityMin() int { return s.granularity }

// placementOrder returns the indexes of tasks sorted by priority (high first),
// then by duration (short first). Ties keep their input order.
func placementOrder(tasks []models.Task) []int {
	order := make([]int, len(tasks))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		ta, tb := tasks[a], tasks[b]
		if c := cmp.Compare(tb.Priority.Rank(), ta.Priority.Rank()); c != 0 {
			return c
		}
		return cmp.Compare(ta.Duration(), tb.Duration())
	})
	return order
}
