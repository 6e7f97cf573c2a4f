package models

// TaskTypeConstraint narrows where tasks of one activity type may be placed.
// A nil AllowedWeekdays allows any day; an empty mask allows none.
type TaskTypeConstraint struct {
	ActivityType    string       `json:"activity_type" yaml:"activity_type"`
	PreferredStart  *TimeOfDay   `json:"preferred_start,omitempty" yaml:"preferred_start,omitempty"`
	PreferredEnd    *TimeOfDay   `json:"preferred_end,omitempty" yaml:"preferred_end,omitempty"`
	AllowedWeekdays *WeekdayMask `json:"allowed_weekdays,omitempty" yaml:"allowed_weekdays,omitempty"`
}

// ConstraintSet maps activity types to their constraints.
type ConstraintSet map[string]TaskTypeConstraint

// For returns the constraint registered for the activity type, or nil.
func (cs ConstraintSet) For(activityType string) *TaskTypeConstraint {
	c, ok := cs[activityType]
	if !ok {
		return nil
	}
	return &c
}

// NewConstraintSet indexes constraints by activity type. Later entries win.
func NewConstraintSet(constraints []TaskTypeConstraint) ConstraintSet {
	cs := make(ConstraintSet, len(constraints))
	for _, c := range constraints {
		cs[c.ActivityType] = c
	}
	return cs
}
