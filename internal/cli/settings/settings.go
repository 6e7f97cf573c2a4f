package settings

import (
	"fmt"

	"github.com/mledan/taskometer-sub001/internal/cli"
	"github.com/mledan/taskometer-sub001/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone           *string `help:"IANA timezone used to read 'now' and dates (or 'Local')."`
	LookaheadDays      *int    `help:"How many days ahead the scheduler searches."`
	GranularityMin     *int    `help:"Placement rounding step in minutes."`
	DefaultDurationMin *int    `help:"Duration used by 'task add' when none is given."`
}

func (c *SettingsCmd) Validate() error {
	if c.Timezone != nil && !utils.ValidateTimezone(*c.Timezone) {
		return fmt.Errorf("invalid timezone: %s", *c.Timezone)
	}
	if c.LookaheadDays != nil && (*c.LookaheadDays < 1 || *c.LookaheadDays > 366) {
		return fmt.Errorf("lookahead days must be between 1 and 366")
	}
	if c.GranularityMin != nil && (*c.GranularityMin < 1 || *c.GranularityMin > 60 || 60%*c.GranularityMin != 0) {
		return fmt.Errorf("granularity must divide an hour evenly (1-60 minutes)")
	}
	if c.DefaultDurationMin != nil && *c.DefaultDurationMin <= 0 {
		return fmt.Errorf("default duration must be positive")
	}
	return nil
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Timezone:          %s\n", settings.Timezone)
		fmt.Printf("  Lookahead:         %d days\n", settings.LookaheadDays)
		fmt.Printf("  Granularity:       %d min\n", settings.GranularityMin)
		fmt.Printf("  Default Duration:  %d min\n", settings.DefaultDurationMin)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.LookaheadDays != nil {
		settings.LookaheadDays = *c.LookaheadDays
		updated = true
	}
	if c.GranularityMin != nil {
		settings.GranularityMin = *c.GranularityMin
		updated = true
	}
	if c.DefaultDurationMin != nil {
		settings.DefaultDurationMin = *c.DefaultDurationMin
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
