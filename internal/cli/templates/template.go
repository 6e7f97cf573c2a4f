package templates

import (
	"fmt"
	"os"

	"github.com/mledan/taskometer-sub001/internal/cli"
	"github.com/mledan/taskometer-sub001/internal/models"
	"github.com/mledan/taskometer-sub001/internal/template"
	"github.com/mledan/taskometer-sub001/internal/validation"
)

type TemplateImportCmd struct {
	File  string `arg:"" type:"existingfile" help:"YAML template file to import."`
	Force bool   `help:"Import even if the template has validation conflicts."`
}

func (c *TemplateImportCmd) Run(ctx *cli.Context) error {
	tpl, err := template.Load(c.File)
	if err != nil {
		return err
	}

	v := validation.New()
	result := v.ValidateTemplate(tpl.Blocks)
	result.Merge(v.ValidateConstraints(models.NewConstraintSet(tpl.Constraints), tpl.Blocks))
	if result.HasConflicts() {
		fmt.Print(result.FormatReport())
		if !c.Force {
			return fmt.Errorf("template has %d conflict(s); fix them or use --force", len(result.Conflicts))
		}
	}

	if err := ctx.Store.SaveTemplate(tpl.Blocks); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	for _, con := range tpl.Constraints {
		if err := ctx.Store.SaveConstraint(con); err != nil {
			return fmt.Errorf("failed to save constraint for %s: %w", con.ActivityType, err)
		}
	}

	fmt.Printf("Imported %d block(s) and %d constraint(s) from %s\n", len(tpl.Blocks), len(tpl.Constraints), c.File)
	return nil
}

type TemplateExportCmd struct {
	Output string `short:"o" help:"Write to this file instead of stdout."`
}

func (c *TemplateExportCmd) Run(ctx *cli.Context) error {
	blocks, err := ctx.Store.GetTemplate()
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}
	constraints, err := ctx.Store.GetConstraints()
	if err != nil {
		return fmt.Errorf("failed to load constraints: %w", err)
	}

	tpl := &template.Template{Blocks: blocks, Constraints: SortedConstraints(constraints)}
	if c.Output != "" {
		if err := template.Save(c.Output, tpl); err != nil {
			return fmt.Errorf("failed to write template: %w", err)
		}
		fmt.Printf("Exported template to %s\n", c.Output)
		return nil
	}

	data, err := template.Marshal(tpl)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

type TemplateShowCmd struct{}

func (c *TemplateShowCmd) Run(ctx *cli.Context) error {
	blocks, err := ctx.Store.GetTemplate()
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}
	if len(blocks) == 0 {
		fmt.Println("Template is empty. Use 'taskometer template import <file>' to add blocks.")
		return nil
	}

	fmt.Println("Daily template:")
	for _, b := range blocks {
		accepts := b.ActivityType
		if b.Category != "" && b.Category != b.ActivityType {
			accepts += "/" + b.Category
		}
		for _, a := range b.AllowedActivityTypes {
			accepts += " +" + a
		}
		overnight := ""
		if b.CrossesMidnight() {
			overnight = " (overnight)"
		}
		fmt.Printf("  %s-%s  %-20s %-10s %s%s\n", b.Start, b.End, b.Name, b.Flexibility, accepts, overnight)
	}
	return nil
}
