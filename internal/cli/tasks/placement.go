package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/mledan/taskometer-sub001/internal/constants"
	"github.com/mledan/taskometer-sub001/internal/models"
	"github.com/mledan/taskometer-sub001/internal/utils"
)

// PlacementFlags are the placement options shared by task add and task edit.
type PlacementFlags struct {
	At      string `help:"Place at a specific time (HH:MM)."`
	Date    string `help:"Place on a specific date (YYYY-MM-DD)."`
	Weekday string `help:"Place on the next given weekday (e.g. 'mon')."`
	Delay   *int   `help:"Place this many minutes after scheduling runs."`
}

func (f PlacementFlags) set() bool {
	return f.At != "" || f.Date != "" || f.Weekday != "" || f.Delay != nil
}

// Placement builds the requested placement; no flags means auto.
func (f PlacementFlags) Placement() (models.Placement, error) {
	if f.Delay != nil {
		if f.At != "" || f.Date != "" || f.Weekday != "" {
			return models.Placement{}, fmt.Errorf("--delay cannot be combined with --at, --date or --weekday")
		}
		if *f.Delay < 0 {
			return models.Placement{}, fmt.Errorf("delay must not be negative")
		}
		return models.Placement{Mode: models.PlacementDelay, DelayMin: *f.Delay}, nil
	}
	if !f.set() {
		return models.Placement{Mode: models.PlacementAuto}, nil
	}

	p := models.Placement{Mode: models.PlacementSpecific}
	if f.At != "" {
		tod, err := models.ParseTimeOfDay(f.At)
		if err != nil {
			return models.Placement{}, err
		}
		p.Time = &tod
	}
	if f.Date != "" {
		if f.Weekday != "" {
			return models.Placement{}, fmt.Errorf("--date and --weekday are mutually exclusive")
		}
		if _, err := utils.ParseDateInLocation(f.Date, time.UTC); err != nil {
			return models.Placement{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", f.Date)
		}
		p.Date = f.Date
	}
	if f.Weekday != "" {
		wd, err := models.ParseWeekday(f.Weekday)
		if err != nil {
			return models.Placement{}, err
		}
		p.Weekday = &wd
	}
	return p, nil
}

// DescribePlacement renders a placement request for listings.
func DescribePlacement(p models.Placement) string {
	switch p.EffectiveMode() {
	case models.PlacementDelay:
		return fmt.Sprintf("in %dm", p.DelayMin)
	case models.PlacementSpecific:
		var parts []string
		switch {
		case p.Date != "":
			parts = append(parts, p.Date)
		case p.Weekday != nil:
			parts = append(parts, strings.ToLower(p.Weekday.String()[:3]))
		}
		if p.Time != nil {
			parts = append(parts, p.Time.String())
		} else {
			parts = append(parts, constants.DefaultSpecificTime)
		}
		return "at " + strings.Join(parts, " ")
	default:
		return "auto"
	}
}
