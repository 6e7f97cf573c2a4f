package scheduler

import (
	"testing"
	"time"

	"github.com/mledan/taskometer-sub001/internal/models"
)

func eveningEvent() models.Event {
	return models.Event{
		ID:    "ev1",
		Name:  "Dinner",
		Date:  "2026-01-05",
		Start: tod(19, 0),
		End:   tod(21, 0),
	}
}

func TestApplyEvent_DisplacesAndRepairs(t *testing.T) {
	s := New()
	blocks := []models.TimeBlock{newBlock("evening", "chores", tod(18, 0), tod(23, 0))}
	committed := []models.Task{scheduledTask("laundry", "chores", at(0, 19, 30), 30)}

	report := s.ApplyEvent(eveningEvent(), committed, blocks, nil, at(0, 12, 0))

	if len(report.DisplacedTasks) != 1 || report.DisplacedTasks[0].ID != "laundry" {
		t.Fatalf("DisplacedTasks = %+v, want [laundry]", report.DisplacedTasks)
	}
	if !report.DisplacedTasks[0].ScheduledAt.Equal(at(0, 19, 30)) {
		t.Errorf("displaced snapshot at %v, want original 19:30", report.DisplacedTasks[0].ScheduledAt)
	}
	if len(report.Rescheduled) != 1 {
		t.Fatalf("Rescheduled = %+v, want one entry", report.Rescheduled)
	}
	got := report.Rescheduled[0].NewScheduledAt
	if got == nil || !got.Equal(at(0, 21, 0)) {
		t.Errorf("NewScheduledAt = %v, want 21:00", got)
	}
	if len(report.Unrepaired()) != 0 {
		t.Errorf("Unrepaired = %v, want none", report.Unrepaired())
	}
	if !committed[0].ScheduledAt.Equal(at(0, 19, 30)) {
		t.Error("input task was modified")
	}
}

func TestApplyEvent_Unrepairable(t *testing.T) {
	s := NewWithConfig(Config{LookaheadDays: 1})
	blocks := []models.TimeBlock{newBlock("evening", "chores", tod(19, 0), tod(21, 0))}
	committed := []models.Task{scheduledTask("laundry", "chores", at(0, 19, 30), 30)}

	report := s.ApplyEvent(eveningEvent(), committed, blocks, nil, at(0, 12, 0))

	if len(report.Rescheduled) != 1 {
		t.Fatalf("Rescheduled = %+v, want one entry", report.Rescheduled)
	}
	rs := report.Rescheduled[0]
	if rs.NewScheduledAt != nil {
		t.Errorf("NewScheduledAt = %v, want nil", rs.NewScheduledAt)
	}
	if rs.FailureReason != models.FailureNoFreeSlot {
		t.Errorf("FailureReason = %q, want %q", rs.FailureReason, models.FailureNoFreeSlot)
	}
	if ids := report.Unrepaired(); len(ids) != 1 || ids[0] != "laundry" {
		t.Errorf("Unrepaired = %v, want [laundry]", ids)
	}
	if report.Updated[0].FailureReason != models.FailureNoFreeSlot {
		t.Errorf("updated task FailureReason = %q", report.Updated[0].FailureReason)
	}
}

func TestApplyEvent_LeavesOthersAlone(t *testing.T) {
	s := New()
	blocks := []models.TimeBlock{newBlock("evening", "chores", tod(18, 0), tod(23, 0))}

	done := scheduledTask("done", "chores", at(0, 19, 30), 30)
	done.Status = models.StatusCompleted
	commitment := scheduledTask("event:old", "", at(0, 20, 0), 30)
	before := scheduledTask("before", "chores", at(0, 18, 0), 60)
	adjacent := scheduledTask("adjacent", "chores", at(0, 21, 0), 30)

	report := s.ApplyEvent(eveningEvent(), []models.Task{done, commitment, before, adjacent}, blocks, nil, at(0, 12, 0))

	if len(report.DisplacedTasks) != 0 {
		t.Errorf("DisplacedTasks = %+v, want none", report.DisplacedTasks)
	}
	if len(report.Updated) != 0 || len(report.Rescheduled) != 0 {
		t.Errorf("unexpected updates: %+v", report)
	}
}

func TestApplyEvent_MultipleDisplaced(t *testing.T) {
	s := New()
	blocks := []models.TimeBlock{newBlock("evening", "chores", tod(18, 0), tod(23, 0))}
	committed := []models.Task{
		scheduledTask("a", "chores", at(0, 19, 0), 30),
		scheduledTask("b", "chores", at(0, 19, 30), 30),
		scheduledTask("c", "chores", at(0, 20, 30), 45),
		scheduledTask("keep", "chores", at(0, 21, 30), 30),
	}

	report := s.ApplyEvent(eveningEvent(), committed, blocks, nil, at(0, 12, 0))

	if len(report.DisplacedTasks) != 3 {
		t.Fatalf("displaced %d tasks, want 3", len(report.DisplacedTasks))
	}
	if len(report.Unrepaired()) != 0 {
		t.Fatalf("Unrepaired = %v, want none", report.Unrepaired())
	}

	eventStart, eventEnd, _ := eveningEvent().Interval(time.UTC)
	all := append([]models.Task{committed[3]}, report.Updated...)
	assertNoOverlap(t, all)
	for _, u := range report.Updated {
		start, end, _ := u.Interval()
		if start.Before(eventEnd) && end.After(eventStart) {
			t.Errorf("%s re-placed inside the event at %v", u.ID, start)
		}
	}
}

func TestApplyEvent_ExplicitTaskFallsBackToAuto(t *testing.T) {
	s := New()
	blocks := []models.TimeBlock{newBlock("evening", "chores", tod(18, 0), tod(23, 0))}
	task := scheduledTask("call", "chores", at(0, 19, 30), 30)
	task.Placement = models.Placement{Mode: models.PlacementSpecific, Time: todPtr(19, 30)}

	report := s.ApplyEvent(eveningEvent(), []models.Task{task}, blocks, nil, at(0, 12, 0))

	if len(report.Updated) != 1 {
		t.Fatalf("Updated = %+v, want one task", report.Updated)
	}
	updated := report.Updated[0]
	if updated.Placement.EffectiveMode() != models.PlacementAuto {
		t.Errorf("Placement mode = %s, want auto", updated.Placement.Mode)
	}
	if updated.ScheduledAt == nil || !updated.ScheduledAt.Equal(at(0, 21, 0)) {
		t.Errorf("ScheduledAt = %v, want 21:00", updated.ScheduledAt)
	}
}

func TestApplyEvent_MalformedEvent(t *testing.T) {
	s := New()
	blocks := []models.TimeBlock{newBlock("evening", "chores", tod(18, 0), tod(23, 0))}
	committed := []models.Task{scheduledTask("laundry", "chores", at(0, 19, 30), 30)}
	event := eveningEvent()
	event.Date = "not-a-date"

	report := s.ApplyEvent(event, committed, blocks, nil, at(0, 12, 0))
	if len(report.DisplacedTasks) != 0 || len(report.Rescheduled) != 0 || len(report.Updated) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
	if report.Event.ID != "ev1" {
		t.Errorf("report.Event.ID = %q, want ev1", report.Event.ID)
	}
	if report.FailureReason != models.FailureInvalidEvent {
		t.Errorf("report.FailureReason = %q, want %q", report.FailureReason, models.FailureInvalidEvent)
	}
}

func TestApplyEvent_PausedTaskKeepsASlot(t *testing.T) {
	s := New()
	blocks := []models.TimeBlock{newBlock("evening", "chores", tod(18, 0), tod(23, 0))}
	paused := scheduledTask("p", "chores", at(0, 19, 30), 30)
	paused.Status = models.StatusPaused

	report := s.ApplyEvent(eveningEvent(), []models.Task{paused}, blocks, nil, at(0, 12, 0))

	if len(report.DisplacedTasks) != 1 || len(report.Rescheduled) != 1 || len(report.Updated) != 1 {
		t.Fatalf("report = %+v, want one displaced paused task", report)
	}
	rs := report.Rescheduled[0]
	if rs.NewScheduledAt == nil || !rs.NewScheduledAt.Equal(at(0, 21, 0)) {
		t.Errorf("NewScheduledAt = %v (%q), want 21:00", rs.NewScheduledAt, rs.FailureReason)
	}
	updated := report.Updated[0]
	if updated.Status != models.StatusPaused {
		t.Errorf("Status = %s, want paused", updated.Status)
	}
	if updated.FailureReason != "" {
		t.Errorf("FailureReason = %q, want none", updated.FailureReason)
	}
	if report.FailureReason != "" {
		t.Errorf("report.FailureReason = %q, want none", report.FailureReason)
	}
}
