package scheduler

import (
	"cmp"
	"slices"
	"time"

	"github.com/mledan/taskometer-sub001/internal/constants"
	"github.com/mledan/taskometer-sub001/internal/logger"
	"github.com/mledan/taskometer-sub001/internal/models"
	"github.com/mledan/taskometer-sub001/internal/utils"
)

var defaultSpecificTime = models.ParseTimeOfDayOr(constants.DefaultSpecificTime, models.NewTimeOfDay(9, 0))

// Resolve finds a start time for a single task. Failure to find one is
// reported through the Resolution, never as an error.
func (s *Scheduler) Resolve(task models.Task, blocks []models.TimeBlock, committed []models.Task, constraints models.ConstraintSet, now time.Time) models.Resolution {
	if !task.Schedulable() {
		return models.Failed(models.FailureNotSchedulable)
	}

	var res models.Resolution
	switch task.Placement.EffectiveMode() {
	case models.PlacementSpecific:
		res = s.resolveSpecific(task, committed, constraints, now)
	case models.PlacementDelay:
		res = s.resolveDelay(task, committed, now)
	case models.PlacementAuto:
		res = s.resolveAuto(task, blocks, committed, constraints, now)
	}

	if res.OK() {
		logger.Debug("Placed task", "task", task.ID, "at", res.Slot.ScheduledAt.Format(constants.DateTimeFormat),
			"block", res.Slot.AssignedBlockID, "confidence", res.Slot.Confidence)
	} else {
		logger.Debug("Could not place task", "task", task.ID, "reason", res.FailureReason)
	}
	return res
}

func (s *Scheduler) resolveDelay(task models.Task, committed []models.Task, now time.Time) models.Resolution {
	delay := max(task.Placement.DelayMin, 0)
	target := now.Add(time.Duration(delay) * time.Minute)
	return explicitSlot(task, target, committed)
}

func (s *Scheduler) resolveSpecific(task models.Task, committed []models.Task, constraints models.ConstraintSet, now time.Time) models.Resolution {
	target, ok := specificTarget(task.Placement, now)
	if !ok {
		return models.Failed(models.FailureExplicitPast)
	}

	if c := constraints.For(task.ActivityType); c != nil {
		want := Window{Start: target, End: target.Add(task.Duration())}
		got, ok := Intersect(want, c)
		if !ok || !got.Start.Equal(want.Start) || !got.End.Equal(want.End) {
			return models.Failed(models.FailureExplicitConstraint)
		}
	}

	return explicitSlot(task, target, committed)
}

// explicitSlot accepts target as-is or fails; explicit requests are never
// moved and never double-booked.
func explicitSlot(task models.Task, target time.Time, committed []models.Task) models.Resolution {
	if Conflicts(target, target.Add(task.Duration()), committed, task.ID) {
		return models.Failed(models.FailureExplicitConflict)
	}
	return models.Resolution{Slot: &models.SlotResult{
		ScheduledAt: target,
		Confidence:  constants.ConfidenceExplicit,
	}}
}

// specificTarget computes the datetime a specific placement asks for.
// Past targets roll forward a day, or a week for weekday anchors. A fixed
// date still in the past after rolling is reported as not ok.
func specificTarget(p models.Placement, now time.Time) (time.Time, bool) {
	tod := defaultSpecificTime
	if p.Time != nil {
		tod = *p.Time
	}

	if p.Date != "" {
		date, err := utils.ParseDateInLocation(p.Date, now.Location())
		if err == nil {
			target := tod.On(date)
			if target.Before(now) {
				target = target.AddDate(0, 0, 1)
			}
			return target, !target.Before(now)
		}
		logger.Warn("Ignoring malformed placement date", "date", p.Date, "error", err)
	}

	if p.Weekday != nil {
		target := tod.On(utils.NextWeekday(now, *p.Weekday))
		if target.Before(now) {
			target = target.AddDate(0, 0, constants.DaysPerWeek)
		}
		return target, true
	}

	target := tod.On(now)
	if target.Before(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target, true
}

func (s *Scheduler) resolveAuto(task models.Task, blocks []models.TimeBlock, committed []models.Task, constraints models.ConstraintSet, now time.Time) models.Resolution {
	matched := matchBlocks(blocks, task.ActivityType)
	if len(matched) == 0 {
		return models.Failed(models.FailureNoMatchingBlock)
	}

	constraint := constraints.For(task.ActivityType)
	duration := task.Duration()

	for _, block := range matched {
		for w := range Windows(block, now, s.lookahead) {
			narrowed, ok := Intersect(w, constraint)
			if !ok {
				continue
			}
			start, ok := s.probe(narrowed, duration, committed, task.ID, now)
			if !ok {
				continue
			}
			return models.Resolution{Slot: &models.SlotResult{
				ScheduledAt:     start,
				AssignedBlockID: block.ID,
				Confidence:      confidence(task, block),
			}}
		}
	}

	return models.Failed(models.FailureNoFreeSlot)
}

// probe walks w in granularity steps from the first rounded candidate and
// returns the first start whose span fits and is conflict-free.
func (s *Scheduler) probe(w Window, duration time.Duration, committed []models.Task, ignoreID string, now time.Time) (time.Time, bool) {
	candidate := utils.RoundUp(utils.MaxTime(now, w.Start), s.granularity)
	if candidate.Before(w.Start) {
		candidate = w.Start
	}

	step := time.Duration(s.granularity) * time.Minute
	for ; w.Fits(candidate, duration); candidate = candidate.Add(step) {
		if !Conflicts(candidate, candidate.Add(duration), committed, ignoreID) {
			return candidate, true
		}
	}
	return time.Time{}, false
}

// matchBlocks returns the blocks that accept the activity type, falling back
// to buffer blocks, ordered by start of day.
func matchBlocks(blocks []models.TimeBlock, activityType string) []models.TimeBlock {
	var matched []models.TimeBlock
	for _, b := range blocks {
		if b.Accepts(activityType) {
			matched = append(matched, b)
		}
	}
	if len(matched) == 0 {
		for _, b := range blocks {
			if b.IsBuffer() {
				matched = append(matched, b)
			}
		}
	}

	slices.SortStableFunc(matched, func(a, b models.TimeBlock) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Flexibility.Rank(), b.Flexibility.Rank()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return matched
}

func confidence(task models.Task, block models.TimeBlock) int {
	score := 0
	if block.MatchesExactly(task.ActivityType) {
		score += constants.ConfidenceExactMatch
	}
	score += task.Priority.ConfidenceBonus()

	taskMin := int(task.Duration() / time.Minute)
	blockMin := block.EffectiveMinutes()
	switch {
	case taskMin*100 <= blockMin*constants.TightFitPercent:
		score += constants.ConfidenceTightFit
	case taskMin*100 <= blockMin*constants.LooseFitPercent:
		score += constants.ConfidenceLooseFit
	}

	return min(score, constants.ConfidenceMax)
}
