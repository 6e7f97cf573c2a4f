package schedule

import (
	"fmt"

	"github.com/mledan/taskometer-sub001/internal/cli"
	"github.com/mledan/taskometer-sub001/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Remove duplicate tasks, keeping the oldest."`
}

// Check runs every validator over the stored plan.
func Check(plan cli.Plan) validation.ValidationResult {
	v := validation.New()
	result := v.ValidateTemplate(plan.Blocks)
	result.Merge(v.ValidateConstraints(plan.Constraints, plan.Blocks))
	result.Merge(v.ValidateTasks(plan.Tasks))
	return result
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	plan, err := ctx.LoadPlan()
	if err != nil {
		return err
	}

	result := Check(plan)
	fmt.Print(result.FormatReport())
	if !result.HasConflicts() {
		fmt.Println()
		return nil
	}

	if c.Fix {
		actions := validation.AutoFixDuplicateTasks(result.Conflicts, plan.Tasks, ctx.Store.DeleteTask)
		if len(actions) == 0 {
			fmt.Println("\nNothing could be fixed automatically.")
		}
		for _, a := range actions {
			fmt.Printf("\n✓ %s", a.Action)
		}
		fmt.Println()
	}

	return fmt.Errorf("validation found %d conflict(s)", len(result.Conflicts))
}
