package models

import (
	"slices"

	"github.com/mledan/taskometer-sub001/internal/constants"
)

type Flexibility string

const (
	FlexibilityFixed     Flexibility = "fixed"
	FlexibilityPreferred Flexibility = "preferred"
	FlexibilityFlexible  Flexibility = "flexible"
)

// Rank orders flexibility from least (0) to most (2) movable. Unknown values rank as flexible.
func (f Flexibility) Rank() int {
	switch f {
	case FlexibilityFixed:
		return 0
	case FlexibilityPreferred:
		return 1
	default:
		return 2
	}
}

func (f Flexibility) Valid() bool {
	switch f {
	case FlexibilityFixed, FlexibilityPreferred, FlexibilityFlexible:
		return true
	default:
		return false
	}
}

// TimeBlock is one interval of the recurring daily template.
// End <= Start means the block crosses midnight.
type TimeBlock struct {
	ID                   string      `json:"id" yaml:"id"`
	Name                 string      `json:"name" yaml:"name"`
	Start                TimeOfDay   `json:"start" yaml:"start"`
	End                  TimeOfDay   `json:"end" yaml:"end"`
	ActivityType         string      `json:"activity_type,omitempty" yaml:"activity_type,omitempty"`
	Category             string      `json:"category,omitempty" yaml:"category,omitempty"`
	AllowedActivityTypes []string    `json:"allowed_activity_types,omitempty" yaml:"allowed_activity_types,omitempty"`
	Flexibility          Flexibility `json:"flexibility" yaml:"flexibility"`
}

// CrossesMidnight reports whether the block ends on the following day.
func (b TimeBlock) CrossesMidnight() bool {
	return b.End <= b.Start
}

// EffectiveMinutes is (End - Start) mod 1440. Equal start and end span a whole day.
func (b TimeBlock) EffectiveMinutes() int {
	mins := b.Start.MinutesUntil(b.End)
	if mins == 0 {
		return constants.MinutesPerDay
	}
	return mins
}

// MatchesExactly reports whether the block is dedicated to the activity type.
func (b TimeBlock) MatchesExactly(activityType string) bool {
	if activityType == "" {
		return false
	}
	return b.ActivityType == activityType || b.Category == activityType
}

// Accepts reports whether the block may host tasks of the activity type.
func (b TimeBlock) Accepts(activityType string) bool {
	return b.MatchesExactly(activityType) || slices.Contains(b.AllowedActivityTypes, activityType)
}

// IsBuffer reports whether the block is a general-purpose buffer.
func (b TimeBlock) IsBuffer() bool {
	return b.ActivityType == constants.BufferActivity || b.Category == constants.BufferActivity
}
