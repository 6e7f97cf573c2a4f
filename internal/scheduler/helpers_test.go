package scheduler

import (
	"testing"
	"time"

	"github.com/mledan/taskometer-sub001/internal/models"
)

// Monday 2026-01-05 is day 0 in these tests.
func at(day, hour, minute int) time.Time {
	return time.Date(2026, 1, 5+day, hour, minute, 0, 0, time.UTC)
}

func tod(hour, minute int) models.TimeOfDay {
	return models.NewTimeOfDay(hour, minute)
}

func todPtr(hour, minute int) *models.TimeOfDay {
	t := tod(hour, minute)
	return &t
}

func maskPtr(days ...time.Weekday) *models.WeekdayMask {
	m := models.NewWeekdayMask(days...)
	return &m
}

func newBlock(id, activity string, start, end models.TimeOfDay) models.TimeBlock {
	return models.TimeBlock{
		ID:           id,
		Name:         id,
		Start:        start,
		End:          end,
		ActivityType: activity,
		Flexibility:  models.FlexibilityPreferred,
	}
}

func newTask(id, activity string, duration int, priority models.Priority) models.Task {
	return models.Task{
		ID:           id,
		Name:         id,
		ActivityType: activity,
		DurationMin:  duration,
		Priority:     priority,
		Status:       models.StatusPending,
		Placement:    models.Placement{Mode: models.PlacementAuto},
	}
}

func scheduledTask(id, activity string, start time.Time, duration int) models.Task {
	t := newTask(id, activity, duration, models.PriorityMedium)
	t.ScheduledAt = &start
	return t
}

func assertPlacedAt(t *testing.T, res models.Resolution, want time.Time) {
	t.Helper()
	if !res.OK() {
		t.Fatalf("expected placement at %v, got failure %q", want, res.FailureReason)
	}
	if !res.Slot.ScheduledAt.Equal(want) {
		t.Errorf("ScheduledAt = %v, want %v", res.Slot.ScheduledAt, want)
	}
}

func assertNoOverlap(t *testing.T, tasks []models.Task) {
	t.Helper()
	for i := range tasks {
		si, ei, ok := tasks[i].Interval()
		if !ok {
			continue
		}
		for j := i + 1; j < len(tasks); j++ {
			sj, ej, ok := tasks[j].Interval()
			if !ok {
				continue
			}
			if si.Before(ej) && ei.After(sj) {
				t.Errorf("tasks %s [%v,%v) and %s [%v,%v) overlap", tasks[i].ID, si, ei, tasks[j].ID, sj, ej)
			}
		}
	}
}
