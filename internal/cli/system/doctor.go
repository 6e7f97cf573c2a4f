package system

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mledan/taskometer-sub001/internal/cli"
	"github.com/mledan/taskometer-sub001/internal/cli/schedule"
	"github.com/mledan/taskometer-sub001/internal/keyring"
	"github.com/mledan/taskometer-sub001/internal/migration"
	"github.com/mledan/taskometer-sub001/internal/storage/postgres"
	"github.com/mledan/taskometer-sub001/internal/storage/sqlite"
	"github.com/mledan/taskometer-sub001/internal/utils"
)

// sqlBacked is implemented by the SQL stores.
type sqlBacked interface {
	DB() *sql.DB
	Runner() (*migration.Runner, error)
}

type severity int

const (
	severityFail severity = iota
	severityWarn
)

type check struct {
	name     string
	severity severity
	needsDB  bool
	run      func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Template present", severity: severityWarn, needsDB: true, run: checkTemplatePresent},
	{name: "Data validation", needsDB: true, run: checkValidation},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "OS keyring", severity: severityWarn, run: checkKeyring},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.severity == severityWarn:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

// openSQL returns the SQL side of the store, or false when it is not open.
func openSQL(ctx *cli.Context) (sqlBacked, bool) {
	switch s := ctx.Store.(type) {
	case *sqlite.Store:
		return s, s.Store != nil
	case *postgres.Store:
		return s, s.Store != nil
	}
	return nil, false
}

func checkDBReachable(ctx *cli.Context) error {
	loadErr := ctx.Store.Load()
	store, ok := openSQL(ctx)
	if !ok {
		if loadErr != nil {
			return fmt.Errorf("failed to load database: %w", loadErr)
		}
		return nil
	}
	// A newer schema still counts as reachable; the version check reports it.
	db := store.DB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	var result int
	if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func runner(ctx *cli.Context) (*migration.Runner, error) {
	store, ok := openSQL(ctx)
	if !ok {
		return nil, nil
	}
	return store.Runner()
}

func checkSchemaVersion(ctx *cli.Context) error {
	r, err := runner(ctx)
	if err != nil || r == nil {
		return err
	}
	return r.ValidateVersion()
}

func checkMigrationsComplete(ctx *cli.Context) error {
	r, err := runner(ctx)
	if err != nil || r == nil {
		return err
	}
	st, err := r.Status()
	if err != nil {
		return err
	}
	if !st.UpToDate() {
		return fmt.Errorf("database is at version %d but %d is available (%d pending); run 'migrate'", st.Current, st.Latest, len(st.Pending))
	}
	return nil
}

func checkTemplatePresent(ctx *cli.Context) error {
	blocks, err := ctx.Store.GetTemplate()
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		return fmt.Errorf("template has no blocks; automatic placement will always fail")
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	plan, err := ctx.LoadPlan()
	if err != nil {
		return err
	}
	result := schedule.Check(plan)
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found; run 'validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx == nil || ctx.Store == nil {
		return nil
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return nil
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("configured timezone %q is not a known IANA zone", settings.Timezone)
	}
	return nil
}

func checkKeyring(*cli.Context) error {
	if !keyring.IsAvailable() {
		return fmt.Errorf("OS keyring is not available; PostgreSQL passwords must come from the environment or .pgpass")
	}
	return nil
}
