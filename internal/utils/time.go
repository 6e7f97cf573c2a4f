package utils

import (
	"fmt"
	"time"

	"github.com/mledan/taskometer-sub001/internal/constants"
	"github.com/mledan/taskometer-sub001/internal/models"
)

// GetTodayInTimezone returns today's date string (YYYY-MM-DD) in the specified timezone.
func GetTodayInTimezone(timezone string) (string, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return "", err
	}
	return now.Format(constants.DateFormat), nil
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
// This is the only place the application reads the wall clock; the scheduler
// receives "now" explicitly.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	// Return the date at midnight in the specified timezone
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// CombineDateAndTime combines a date string (YYYY-MM-DD) and time string (HH:MM)
// into a single time.Time in the specified timezone.
func CombineDateAndTime(dateStr, timeStr string, loc *time.Location) (time.Time, error) {
	date, err := ParseDateInLocation(dateStr, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}

	tod, err := models.ParseTimeOfDay(timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format: %w", err)
	}

	return tod.On(date), nil
}

// ParseDateTimeInLocation parses "YYYY-MM-DD HH:MM" or RFC3339 in the specified timezone.
func ParseDateTimeInLocation(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(constants.DateTimeFormat, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date-time %q (expected YYYY-MM-DD HH:MM)", s)
	}
	return t.In(loc), nil
}

// StartOfDay returns local midnight of t's calendar date.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RoundUp rounds t up to the next wall-clock boundary of granularity minutes.
// A t already on a boundary (with no seconds) is returned unchanged.
func RoundUp(t time.Time, granularityMin int) time.Time {
	if granularityMin <= 0 {
		return t
	}
	elapsed := t.Hour()*60 + t.Minute()
	hasRemainder := t.Second() != 0 || t.Nanosecond() != 0
	rem := elapsed % granularityMin
	if rem == 0 && !hasRemainder {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
	}
	// Wall-clock arithmetic: on DST days midnight plus elapsed minutes is off by the shift.
	next := elapsed - rem + granularityMin
	return time.Date(t.Year(), t.Month(), t.Day(), 0, next, 0, 0, t.Location())
}

// MaxTime returns the later of a and b.
func MaxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// NextWeekday returns the first date on or after from falling on wd, at from's time of day.
func NextWeekday(from time.Time, wd time.Weekday) time.Time {
	delta := (int(wd) - int(from.Weekday()) + constants.DaysPerWeek) % constants.DaysPerWeek
	return from.AddDate(0, 0, delta)
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := models.ParseTimeOfDay(timeStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
