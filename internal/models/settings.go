package models

// Settings represents application-wide settings
type Settings struct {
	Timezone           string `json:"timezone"`             // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
	LookaheadDays      int    `json:"lookahead_days"`       // how many upcoming days the scheduler searches
	GranularityMin     int    `json:"granularity_min"`      // candidate rounding and probing step in minutes
	DefaultDurationMin int    `json:"default_duration_min"` // duration used by task add when none is given
}
