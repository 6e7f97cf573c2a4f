package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mledan/taskometer-sub001/internal/cli"
	"github.com/mledan/taskometer-sub001/internal/constants"
	"github.com/mledan/taskometer-sub001/internal/storage"
	"github.com/mledan/taskometer-sub001/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		source, err := cli.OpenStore(c.Source)
		if err != nil {
			return fmt.Errorf("invalid source: %w", err)
		}
		if err := source.Load(); err != nil {
			return fmt.Errorf("failed to load source database: %w", err)
		}
		defer source.Close()

		if err := CopyData(source, ctx.Store); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return fmt.Errorf("--force is only supported for SQLite storage")
	}

	dbPath := ctx.Store.GetConfigPath()
	if abs, err := filepath.Abs(dbPath); err == nil {
		dbPath = abs
	}
	if c.Source != "" {
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	_, err := os.Stat(dbPath)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	// Close first so the file is not held open while it is removed.
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	fmt.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

// CopyData copies every record from src into dst, which must already be initialized.
func CopyData(src, dst storage.Provider) error {
	fmt.Println("  Copying settings...")
	settings, err := src.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := dst.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Copying template...")
	blocks, err := src.GetTemplate()
	if err != nil {
		return fmt.Errorf("failed to get template from source: %w", err)
	}
	if err := dst.SaveTemplate(blocks); err != nil {
		return fmt.Errorf("failed to save template to destination: %w", err)
	}
	fmt.Printf("    Copied %d blocks\n", len(blocks))

	fmt.Println("  Copying constraints...")
	constraints, err := src.GetConstraints()
	if err != nil {
		return fmt.Errorf("failed to get constraints from source: %w", err)
	}
	for _, con := range constraints {
		if err := dst.SaveConstraint(con); err != nil {
			return fmt.Errorf("failed to save constraint %s: %w", con.ActivityType, err)
		}
	}
	fmt.Printf("    Copied %d constraints\n", len(constraints))

	fmt.Println("  Copying tasks...")
	tasks, err := src.GetAllTasksIncludingDeleted()
	if err != nil {
		return fmt.Errorf("failed to get tasks from source: %w", err)
	}
	if err := dst.UpdateTasks(tasks); err != nil {
		return fmt.Errorf("failed to save tasks to destination: %w", err)
	}
	fmt.Printf("    Copied %d tasks\n", len(tasks))

	fmt.Println("  Copying events...")
	events, err := src.GetEvents()
	if err != nil {
		return fmt.Errorf("failed to get events from source: %w", err)
	}
	for _, e := range events {
		if err := dst.ApplyEvent(e, nil); err != nil {
			return fmt.Errorf("failed to add event %s: %w", e.ID, err)
		}
	}
	fmt.Printf("    Copied %d events\n", len(events))

	return nil
}
