// Package template reads and writes schedule templates as YAML files.
//
// A file holds the recurring daily blocks and the per-activity-type
// constraints:
//
//	version: 1
//	blocks:
//	  - id: focus
//	    name: Deep work
//	    start: "09:00"
//	    end: "12:00"
//	    activity_type: work
//	    flexibility: fixed
//	constraints:
//	  - activity_type: exercise
//	    preferred_start: "06:00"
//	    preferred_end: "08:00"
//	    allowed_weekdays: mon,wed,fri
//
// Malformed times never abort a load: they fall back to defaults and a
// warning is logged.
package template

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mledan/taskometer-sub001/internal/constants"
	"github.com/mledan/taskometer-sub001/internal/logger"
	"github.com/mledan/taskometer-sub001/internal/models"
)

const CurrentVersion = 1

// Template is the in-memory form of a template file.
type Template struct {
	Blocks      []models.TimeBlock
	Constraints []models.TaskTypeConstraint
}

type file struct {
	Version     int               `yaml:"version"`
	Blocks      []blockEntry      `yaml:"blocks"`
	Constraints []constraintEntry `yaml:"constraints,omitempty"`
}

type blockEntry struct {
	ID                   string   `yaml:"id"`
	Name                 string   `yaml:"name"`
	Start                string   `yaml:"start"`
	End                  string   `yaml:"end"`
	ActivityType         string   `yaml:"activity_type,omitempty"`
	Category             string   `yaml:"category,omitempty"`
	AllowedActivityTypes []string `yaml:"allowed_activity_types,omitempty"`
	Flexibility          string   `yaml:"flexibility,omitempty"`
}

type constraintEntry struct {
	ActivityType    string  `yaml:"activity_type"`
	PreferredStart  string  `yaml:"preferred_start,omitempty"`
	PreferredEnd    string  `yaml:"preferred_end,omitempty"`
	AllowedWeekdays *string `yaml:"allowed_weekdays,omitempty"`
}

// Load reads and parses the template file at path.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML template document.
func Parse(data []byte) (*Template, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	if f.Version > CurrentVersion {
		return nil, fmt.Errorf("template version %d is newer than supported version %d", f.Version, CurrentVersion)
	}

	t := &Template{}
	seen := make(map[string]bool, len(f.Blocks))
	for i, e := range f.Blocks {
		b, err := e.toBlock(i)
		if err != nil {
			return nil, err
		}
		if seen[b.ID] {
			return nil, fmt.Errorf("block %q: duplicate id", b.ID)
		}
		seen[b.ID] = true
		t.Blocks = append(t.Blocks, b)
	}
	for _, e := range f.Constraints {
		c, err := e.toConstraint()
		if err != nil {
			return nil, err
		}
		t.Constraints = append(t.Constraints, c)
	}
	return t, nil
}

// Save writes t to path.
func Save(path string, t *Template) error {
	data, err := Marshal(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal encodes t as a YAML template document.
func Marshal(t *Template) ([]byte, error) {
	f := file{Version: CurrentVersion}
	for _, b := range t.Blocks {
		f.Blocks = append(f.Blocks, blockEntry{
			ID:                   b.ID,
			Name:                 b.Name,
			Start:                b.Start.String(),
			End:                  b.End.String(),
			ActivityType:         b.ActivityType,
			Category:             b.Category,
			AllowedActivityTypes: b.AllowedActivityTypes,
			Flexibility:          string(b.Flexibility),
		})
	}
	for _, c := range t.Constraints {
		e := constraintEntry{ActivityType: c.ActivityType}
		if c.PreferredStart != nil {
			e.PreferredStart = c.PreferredStart.String()
		}
		if c.PreferredEnd != nil {
			e.PreferredEnd = c.PreferredEnd.String()
		}
		if c.AllowedWeekdays != nil {
			days := c.AllowedWeekdays.String()
			e.AllowedWeekdays = &days
		}
		f.Constraints = append(f.Constraints, e)
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("marshal template: %w", err)
	}
	return data, nil
}

func (e blockEntry) toBlock(index int) (models.TimeBlock, error) {
	id := strings.TrimSpace(e.ID)
	if id == "" {
		return models.TimeBlock{}, fmt.Errorf("block %d: id is required", index+1)
	}

	defStart := models.ParseTimeOfDayOr(constants.DefaultSpecificTime, 0)
	start := parseTimeOr(e.Start, defStart, "block", id, "start")
	end := parseTimeOr(e.End, start+models.TimeOfDay(constants.MinutesPerHour), "block", id, "end")

	flex := models.Flexibility(strings.ToLower(strings.TrimSpace(e.Flexibility)))
	if flex == "" {
		flex = models.FlexibilityPreferred
	}
	if !flex.Valid() {
		return models.TimeBlock{}, fmt.Errorf("block %q: flexibility must be fixed, preferred or flexible, got %q", id, e.Flexibility)
	}

	name := e.Name
	if name == "" {
		name = id
	}
	return models.TimeBlock{
		ID:                   id,
		Name:                 name,
		Start:                start,
		End:                  models.NewTimeOfDay(0, int(end)),
		ActivityType:         e.ActivityType,
		Category:             e.Category,
		AllowedActivityTypes: e.AllowedActivityTypes,
		Flexibility:          flex,
	}, nil
}

func (e constraintEntry) toConstraint() (models.TaskTypeConstraint, error) {
	c := models.TaskTypeConstraint{ActivityType: strings.TrimSpace(e.ActivityType)}
	if c.ActivityType == "" {
		return c, fmt.Errorf("constraint: activity_type is required")
	}
	c.PreferredStart = parseOptionalTime(e.PreferredStart, c.ActivityType, "preferred_start")
	c.PreferredEnd = parseOptionalTime(e.PreferredEnd, c.ActivityType, "preferred_end")

	if e.AllowedWeekdays != nil {
		mask, err := models.ParseWeekdayMask(*e.AllowedWeekdays)
		if err != nil {
			logger.Warn("Ignoring malformed weekdays", "activity_type", c.ActivityType, "value", *e.AllowedWeekdays, "error", err)
		} else {
			c.AllowedWeekdays = &mask
		}
	}
	return c, nil
}

func parseTimeOr(s string, def models.TimeOfDay, kind, id, field string) models.TimeOfDay {
	tod, err := models.ParseTimeOfDay(s)
	if err != nil {
		logger.Warn("Malformed time, using default", kind, id, "field", field, "value", s, "default", def.String())
		return def
	}
	return tod
}

func parseOptionalTime(s, activityType, field string) *models.TimeOfDay {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	tod, err := models.ParseTimeOfDay(s)
	if err != nil {
		logger.Warn("Ignoring malformed preference", "activity_type", activityType, "field", field, "value", s)
		return nil
	}
	return &tod
}
