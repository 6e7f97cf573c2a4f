package system

import (
	"fmt"

	"github.com/mledan/taskometer-sub001/internal/cli"
)

type MigrateCmd struct {
	Status bool `help:"Show the schema version and pending migrations without applying them."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	// Load refuses newer schemas; pending migrations are fine.
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	store, ok := openSQL(ctx)
	if !ok {
		return fmt.Errorf("migrate requires a SQL-backed store")
	}
	runner, err := store.Runner()
	if err != nil {
		return err
	}

	if c.Status {
		st, err := runner.Status()
		if err != nil {
			return err
		}
		fmt.Printf("Schema version: %d (latest %d)\n", st.Current, st.Latest)
		for _, m := range st.Pending {
			fmt.Printf("  pending %03d_%s\n", m.Version, m.Name)
		}
		return nil
	}

	count, err := runner.ApplyMigrations(func(msg string) { fmt.Println(msg) })
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count > 0 {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
