package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mledan/taskometer-sub001/internal/constants"
)

// TimeOfDay is a wall-clock time expressed as minutes since local midnight.
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from an hour and minute, wrapping into a single day.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(((hour*60+minute)%constants.MinutesPerDay + constants.MinutesPerDay) % constants.MinutesPerDay)
}

// ParseTimeOfDay parses a time string in HH:MM (24h) format.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(constants.TimeFormat, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (expected HH:MM): %w", s, err)
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

// ParseTimeOfDayOr parses s and falls back to def when s is malformed.
func ParseTimeOfDayOr(s string, def TimeOfDay) TimeOfDay {
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		return def
	}
	return tod
}

// TimeOfDayOf returns the wall-clock time of t, truncated to the minute.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute())
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// On combines the time of day with the calendar date of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}

// MinutesUntil returns the forward distance from t to other, wrapping past midnight.
func (t TimeOfDay) MinutesUntil(other TimeOfDay) int {
	return ((int(other)-int(t))%constants.MinutesPerDay + constants.MinutesPerDay) % constants.MinutesPerDay
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// WeekdayMask is a set of weekdays. Bit n is set when time.Weekday(n) is allowed.
type WeekdayMask uint8

// AllWeekdays allows every day of the week.
const AllWeekdays WeekdayMask = 1<<7 - 1

// NewWeekdayMask builds a mask from the given weekdays.
func NewWeekdayMask(days ...time.Weekday) WeekdayMask {
	var m WeekdayMask
	for _, d := range days {
		m = m.With(d)
	}
	return m
}

func (m WeekdayMask) With(d time.Weekday) WeekdayMask {
	if d < time.Sunday || d > time.Saturday {
		return m
	}
	return m | 1<<uint(d)
}

func (m WeekdayMask) Has(d time.Weekday) bool {
	if d < time.Sunday || d > time.Saturday {
		return false
	}
	return m&(1<<uint(d)) != 0
}

func (m WeekdayMask) IsEmpty() bool {
	return m&AllWeekdays == 0
}

// Weekdays lists the days in the mask from Sunday to Saturday.
func (m WeekdayMask) Weekdays() []time.Weekday {
	var days []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if m.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

func (m WeekdayMask) String() string {
	days := m.Weekdays()
	if len(days) == 0 {
		return "none"
	}
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, strings.ToLower(d.String()[:3]))
	}
	return strings.Join(names, ",")
}

func (m WeekdayMask) MarshalText() ([]byte, error) {
	if m.IsEmpty() {
		return []byte(""), nil
	}
	return []byte(m.String()), nil
}

func (m *WeekdayMask) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekdayMask(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

var weekdayNames = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

// ParseWeekday parses a weekday name ("mon", "monday") or number (0=Sunday, 6=Saturday).
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if wd, ok := weekdayNames[s]; ok {
		return wd, nil
	}
	num, err := strconv.Atoi(s)
	if err == nil && num >= 0 && num <= 6 {
		return time.Weekday(num), nil
	}
	return 0, fmt.Errorf("invalid weekday: %s", s)
}

// ParseWeekdayMask parses a comma-separated list of weekdays.
// An empty string or "none" yields an empty mask.
func ParseWeekdayMask(s string) (WeekdayMask, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return 0, nil
	}
	var m WeekdayMask
	for _, part := range strings.Split(s, ",") {
		wd, err := ParseWeekday(part)
		if err != nil {
			return 0, err
		}
		m = m.With(wd)
	}
	return m, nil
}
