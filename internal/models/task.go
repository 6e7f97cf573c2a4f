package models

import (
	"strings"
	"time"

	"github.com/mledan/taskometer-sub001/internal/constants"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities from most (2) to least (0) urgent. Unknown values rank as low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// ConfidenceBonus is the score a placement earns from the task's priority.
func (p Priority) ConfidenceBonus() int {
	switch p {
	case PriorityHigh:
		return constants.ConfidenceHighPriority
	case PriorityMedium:
		return constants.ConfidenceMedPriority
	default:
		return 0
	}
}

type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusPaused    TaskStatus = "paused"
	StatusCompleted TaskStatus = "completed"
)

type PlacementMode string

const (
	PlacementAuto     PlacementMode = "auto"
	PlacementSpecific PlacementMode = "specific"
	PlacementDelay    PlacementMode = "delay"
)

// Placement describes how the caller wants a task placed.
// Specific placements anchor on Date, or on Weekday, or on today, in that order.
type Placement struct {
	Mode     PlacementMode `json:"mode" yaml:"mode"`
	Date     string        `json:"date,omitempty" yaml:"date,omitempty"` // YYYY-MM-DD format
	Weekday  *time.Weekday `json:"weekday,omitempty" yaml:"weekday,omitempty"`
	Time     *TimeOfDay    `json:"time,omitempty" yaml:"time,omitempty"`
	DelayMin int           `json:"delay_min,omitempty" yaml:"delay_min,omitempty"`
}

// EffectiveMode maps unknown modes to auto.
func (p Placement) EffectiveMode() PlacementMode {
	switch p.Mode {
	case PlacementSpecific, PlacementDelay:
		return p.Mode
	default:
		return PlacementAuto
	}
}

type Task struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	ActivityType string     `json:"activity_type"`
	DurationMin  int        `json:"duration_min"`
	Priority     Priority   `json:"priority"`
	Status       TaskStatus `json:"status"`
	Placement    Placement  `json:"placement"`

	// Set by the scheduler
	ScheduledAt     *time.Time    `json:"scheduled_at,omitempty"`
	AssignedBlockID string        `json:"assigned_block_id,omitempty"`
	Confidence      int           `json:"confidence"`
	FailureReason   FailureReason `json:"failure_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	DeletedAt *string   `json:"deleted_at,omitempty"` // RFC3339 timestamp
}

// Duration returns the task length, falling back to the default for non-positive values.
func (t Task) Duration() time.Duration {
	mins := t.DurationMin
	if mins <= 0 {
		mins = constants.DefaultTaskDurationMin
	}
	return time.Duration(mins) * time.Minute
}

func (t Task) IsScheduled() bool {
	return t.ScheduledAt != nil
}

func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// Schedulable reports whether the scheduler may place the task.
func (t Task) Schedulable() bool {
	switch t.Status {
	case StatusCompleted, StatusPaused:
		return false
	default:
		return t.DeletedAt == nil
	}
}

// Interval returns the [start, end) span the task occupies, if scheduled.
func (t Task) Interval() (start, end time.Time, ok bool) {
	if t.ScheduledAt == nil {
		return time.Time{}, time.Time{}, false
	}
	return *t.ScheduledAt, t.ScheduledAt.Add(t.Duration()), true
}

// WithResolution returns a copy of the task carrying the resolver's outcome.
func (t Task) WithResolution(r Resolution) Task {
	t = t.Clone()
	if r.Slot == nil {
		t.ScheduledAt = nil
		t.AssignedBlockID = ""
		t.Confidence = 0
		t.FailureReason = r.FailureReason
		return t
	}
	at := r.Slot.ScheduledAt
	t.ScheduledAt = &at
	t.AssignedBlockID = r.Slot.AssignedBlockID
	t.Confidence = r.Slot.Confidence
	t.FailureReason = ""
	return t
}

// Unscheduled returns a copy of the task with all scheduler output cleared.
func (t Task) Unscheduled() Task {
	t = t.Clone()
	t.ScheduledAt = nil
	t.AssignedBlockID = ""
	t.Confidence = 0
	t.FailureReason = ""
	return t
}

// IsEventCommitment reports whether the task is a synthetic stand-in for an event.
func (t Task) IsEventCommitment() bool {
	return strings.HasPrefix(t.ID, constants.EventCommitmentPrefix)
}

// Clone returns a deep copy so callers and the scheduler never share pointers.
func (t Task) Clone() Task {
	if t.ScheduledAt != nil {
		at := *t.ScheduledAt
		t.ScheduledAt = &at
	}
	if t.DeletedAt != nil {
		d := *t.DeletedAt
		t.DeletedAt = &d
	}
	if t.Placement.Weekday != nil {
		wd := *t.Placement.Weekday
		t.Placement.Weekday = &wd
	}
	if t.Placement.Time != nil {
		tod := *t.Placement.Time
		t.Placement.Time = &tod
	}
	return t
}
