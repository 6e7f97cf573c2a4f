package models

import "time"

// FailureReason is a short machine-stable explanation for an unplaced task.
type FailureReason string

const (
	FailureNoMatchingBlock    FailureReason = "no matching block"
	FailureNoFreeSlot         FailureReason = "no free slot"
	FailureExplicitConflict   FailureReason = "explicit slot conflict"
	FailureExplicitConstraint FailureReason = "explicit slot outside constraints"
	FailureExplicitPast       FailureReason = "explicit slot in past"
	FailureNotSchedulable     FailureReason = "task not schedulable"
	FailureInvalidEvent       FailureReason = "invalid event"
)

// SlotResult is a successful placement.
type SlotResult struct {
	ScheduledAt     time.Time `json:"scheduled_at"`
	AssignedBlockID string    `json:"assigned_block_id,omitempty"`
	Confidence      int       `json:"confidence"`
}

// Resolution is the outcome of placing one task: either a slot or a failure reason.
type Resolution struct {
	Slot          *SlotResult   `json:"slot,omitempty"`
	FailureReason FailureReason `json:"failure_reason,omitempty"`
}

func (r Resolution) OK() bool {
	return r.Slot != nil
}

// Failed builds an unsuccessful Resolution.
func Failed(reason FailureReason) Resolution {
	return Resolution{FailureReason: reason}
}

// BatchResult holds the updated tasks of a batch run, in input order.
type BatchResult struct {
	Tasks       []Task `json:"tasks"`
	Scheduled   int    `json:"scheduled"`
	Unscheduled int    `json:"unscheduled"`
}

// Rescheduled records where a displaced task went. NewScheduledAt is nil when it could not be placed.
type Rescheduled struct {
	TaskID         string        `json:"task_id"`
	NewScheduledAt *time.Time    `json:"new_scheduled_at"`
	FailureReason  FailureReason `json:"failure_reason,omitempty"`
}

// DisplacementReport describes the effect of inserting an event.
type DisplacementReport struct {
	Event          Event         `json:"event"`
	DisplacedTasks []Task        `json:"displaced_tasks"`
	Rescheduled    []Rescheduled `json:"rescheduled"`
	Updated        []Task        `json:"updated"`
	FailureReason  FailureReason `json:"failure_reason,omitempty"`
}

// Unrepaired returns the IDs of displaced tasks that found no new slot.
func (r DisplacementReport) Unrepaired() []string {
	var ids []string
	for _, rs := range r.Rescheduled {
		if rs.NewScheduledAt == nil {
			ids = append(ids, rs.TaskID)
		}
	}
	return ids
}
