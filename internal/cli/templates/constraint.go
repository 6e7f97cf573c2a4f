package templates

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/mledan/taskometer-sub001/internal/cli"
	"github.com/mledan/taskometer-sub001/internal/models"
)

type ConstraintSetCmd struct {
	Type     string  `arg:"" help:"Activity type the constraint applies to."`
	From     string  `help:"Preferred window start (HH:MM)."`
	Until    string  `help:"Preferred window end (HH:MM)."`
	Weekdays *string `help:"Allowed weekdays, e.g. 'mon,wed,fri' ('none' blocks every day)."`
}

func (c *ConstraintSetCmd) Run(ctx *cli.Context) error {
	con := models.TaskTypeConstraint{ActivityType: c.Type}
	if c.From != "" {
		tod, err := models.ParseTimeOfDay(c.From)
		if err != nil {
			return err
		}
		con.PreferredStart = &tod
	}
	if c.Until != "" {
		tod, err := models.ParseTimeOfDay(c.Until)
		if err != nil {
			return err
		}
		con.PreferredEnd = &tod
	}
	if c.Weekdays != nil {
		mask, err := models.ParseWeekdayMask(*c.Weekdays)
		if err != nil {
			return err
		}
		con.AllowedWeekdays = &mask
		if mask.IsEmpty() {
			fmt.Printf("Warning: no weekday is allowed; %s tasks will never be placed automatically.\n", c.Type)
		}
	}

	if err := ctx.Store.SaveConstraint(con); err != nil {
		return fmt.Errorf("failed to save constraint: %w", err)
	}
	fmt.Printf("Saved constraint for %s: %s\n", c.Type, DescribeConstraint(con))
	return nil
}

type ConstraintListCmd struct{}

func (c *ConstraintListCmd) Run(ctx *cli.Context) error {
	constraints, err := ctx.Store.GetConstraints()
	if err != nil {
		return fmt.Errorf("failed to load constraints: %w", err)
	}
	if len(constraints) == 0 {
		fmt.Println("No constraints defined")
		return nil
	}
	for _, con := range SortedConstraints(constraints) {
		fmt.Printf("  %-15s %s\n", con.ActivityType, DescribeConstraint(con))
	}
	return nil
}

type ConstraintDeleteCmd struct {
	Type string `arg:"" help:"Activity type whose constraint to remove."`
}

func (c *ConstraintDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.DeleteConstraint(c.Type); err != nil {
		return fmt.Errorf("failed to delete constraint: %w", err)
	}
	fmt.Printf("Deleted constraint for %s\n", c.Type)
	return nil
}

// SortedConstraints lists a constraint set ordered by activity type.
func SortedConstraints(cs models.ConstraintSet) []models.TaskTypeConstraint {
	return slices.SortedFunc(maps.Values(cs), func(a, b models.TaskTypeConstraint) int {
		return cmp.Compare(a.ActivityType, b.ActivityType)
	})
}

// DescribeConstraint renders a constraint for listings.
func DescribeConstraint(c models.TaskTypeConstraint) string {
	window := "any time"
	if c.PreferredStart != nil || c.PreferredEnd != nil {
		from, until := "start of block", "end of block"
		if c.PreferredStart != nil {
			from = c.PreferredStart.String()
		}
		if c.PreferredEnd != nil {
			until = c.PreferredEnd.String()
		}
		window = from + "-" + until
	}
	days := "any day"
	if c.AllowedWeekdays != nil {
		days = c.AllowedWeekdays.String()
	}
	return window + ", " + days
}
