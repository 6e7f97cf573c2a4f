package constants

const (
	// General Settings
	SettingTimezone           = "timezone"
	SettingLookaheadDays      = "lookahead_days"
	SettingGranularityMin     = "granularity_min"
	SettingDefaultDurationMin = "default_duration_min"

	// Default Settings Values
	DefaultTimezone = "Local" // Use system local timezone by default
)
