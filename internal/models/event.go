package models

import (
	"fmt"
	"time"

	"github.com/mledan/taskometer-sub001/internal/constants"
)

// Event is a one-off fixed commitment that takes precedence over template
// blocks and previously scheduled tasks.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Date      string    `json:"date"` // YYYY-MM-DD format
	Start     TimeOfDay `json:"start"`
	End       TimeOfDay `json:"end"`
	CreatedAt time.Time `json:"created_at"`
}

func (e Event) Flexibility() Flexibility {
	return FlexibilityFixed
}

// Interval returns the concrete [start, end) span in loc.
// End <= Start rolls the end to the following day, so equal times span 24 hours.
func (e Event) Interval(loc *time.Location) (time.Time, time.Time, error) {
	date, err := time.ParseInLocation(constants.DateFormat, e.Date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid event date %q: %w", e.Date, err)
	}
	start := e.Start.On(date)
	end := e.End.On(date)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// AsCommitment returns a synthetic task occupying the event's interval.
func (e Event) AsCommitment(loc *time.Location) (Task, error) {
	start, end, err := e.Interval(loc)
	if err != nil {
		return Task{}, err
	}
	return Task{
		ID:          constants.EventCommitmentPrefix + e.ID,
		Name:        e.Name,
		DurationMin: int(end.Sub(start).Minutes()),
		Priority:    PriorityHigh,
		Status:      StatusPending,
		Placement:   Placement{Mode: PlacementSpecific},
		ScheduledAt: &start,
		Confidence:  constants.ConfidenceExplicit,
	}, nil
}
