package constants

const (
	MinutesPerDay  = 24 * 60
	MinutesPerHour = 60
	DaysPerWeek    = 7
)
