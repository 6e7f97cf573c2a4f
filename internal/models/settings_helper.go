package models

import (
	"fmt"

	"github.com/mledan/taskometer-sub001/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingLookaheadDays:
			if _, err := fmt.Sscanf(value, "%d", &settings.LookaheadDays); err != nil {
				return Settings{}, fmt.Errorf("parsing lookahead_days: %w", err)
			}
		case constants.SettingGranularityMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.GranularityMin); err != nil {
				return Settings{}, fmt.Errorf("parsing granularity_min: %w", err)
			}
		case constants.SettingDefaultDurationMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.DefaultDurationMin); err != nil {
				return Settings{}, fmt.Errorf("parsing default_duration_min: %w", err)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:           settings.Timezone,
		constants.SettingLookaheadDays:      fmt.Sprintf("%d", settings.LookaheadDays),
		constants.SettingGranularityMin:     fmt.Sprintf("%d", settings.GranularityMin),
		constants.SettingDefaultDurationMin: fmt.Sprintf("%d", settings.DefaultDurationMin),
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.LookaheadDays <= 0 {
		settings.LookaheadDays = constants.DefaultLookaheadDays
	}
	if settings.GranularityMin <= 0 {
		settings.GranularityMin = constants.DefaultGranularityMin
	}
	if settings.DefaultDurationMin <= 0 {
		settings.DefaultDurationMin = constants.DefaultTaskDurationMin
	}
}

// DefaultSettings returns a Settings value with every default applied.
func DefaultSettings() Settings {
	s := Settings{}
	ApplyDefaultSettings(&s)
	return s
}
