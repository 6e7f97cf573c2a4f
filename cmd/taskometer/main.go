package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/mledan/taskometer-sub001/internal/cli"
	"github.com/mledan/taskometer-sub001/internal/cli/schedule"
	"github.com/mledan/taskometer-sub001/internal/cli/settings"
	"github.com/mledan/taskometer-sub001/internal/cli/system"
	"github.com/mledan/taskometer-sub001/internal/cli/tasks"
	"github.com/mledan/taskometer-sub001/internal/cli/templates"
	"github.com/mledan/taskometer-sub001/internal/constants"
	apperrors "github.com/mledan/taskometer-sub001/internal/errors"
	"github.com/mledan/taskometer-sub001/internal/logger"
	"github.com/mledan/taskometer-sub001/internal/storage/postgres"
	"github.com/mledan/taskometer-sub001/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite file path or PostgreSQL connection string. PostgreSQL passwords must come from the OS keyring, the environment or .pgpass." type:"string" default:"${default_config}"`
	Debug    bool   `help:"Log debug output to stderr."`
	Now      string `help:"Pretend the current time is this (YYYY-MM-DD HH:MM)." placeholder:"TIME"`
	LogLevel string `help:"Log level for the log file (debug, info, warn, error)." placeholder:"LEVEL"`

	Init     system.InitCmd       `cmd:"" help:"Initialize storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Agenda   system.AgendaCmd     `cmd:"" help:"Show the interactive agenda." default:"1"`
	DebugCmd system.DebugCmd      `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Schedule schedule.ScheduleCmd `cmd:"" help:"Place pending tasks into the template."`
	Place    schedule.PlaceCmd    `cmd:"" help:"Place a single task."`
	Validate schedule.ValidateCmd `cmd:"" help:"Check the template, constraints and tasks for conflicts."`
	Task     struct {
		Add      tasks.TaskAddCmd      `cmd:"" help:"Add a new task."`
		Edit     tasks.TaskEditCmd     `cmd:"" help:"Edit an existing task."`
		Delete   tasks.TaskDeleteCmd   `cmd:"" help:"Delete a task."`
		Complete tasks.TaskCompleteCmd `cmd:"" help:"Mark a task as completed."`
		List     tasks.TaskListCmd     `cmd:"" help:"List tasks."`
	} `cmd:"" help:"Manage tasks."`
	Template struct {
		Import templates.TemplateImportCmd `cmd:"" help:"Import a YAML day template."`
		Export templates.TemplateExportCmd `cmd:"" help:"Export the template as YAML."`
		Show   templates.TemplateShowCmd   `cmd:"" help:"Show the template." default:"1"`
	} `cmd:"" help:"Manage the daily template."`
	Constraint struct {
		Set    templates.ConstraintSetCmd    `cmd:"" help:"Set the constraint for an activity type."`
		List   templates.ConstraintListCmd   `cmd:"" help:"List constraints." default:"1"`
		Delete templates.ConstraintDeleteCmd `cmd:"" help:"Delete the constraint for an activity type."`
	} `cmd:"" help:"Manage activity-type constraints."`
	Event struct {
		Add    schedule.EventAddCmd    `cmd:"" help:"Add a fixed event, displacing overlapping tasks."`
		List   schedule.EventListCmd   `cmd:"" help:"List events." default:"1"`
		Delete schedule.EventDeleteCmd `cmd:"" help:"Delete an event."`
	} `cmd:"" help:"Manage fixed events."`
	Restore struct {
		Task tasks.TaskRestoreCmd `cmd:"" help:"Restore a deleted task."`
	} `cmd:"" help:"Restore deleted items."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string, password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability." default:"1"`
	} `cmd:"" help:"Manage credentials in the OS keyring."`
}

// skipLoad lists commands that open the store themselves or never need it.
func skipLoad(command string) bool {
	for _, prefix := range []string{"init", "doctor", "migrate", "keyring"} {
		if command == prefix || strings.HasPrefix(command, prefix+" ") {
			return true
		}
	}
	return false
}

func logDir(config string) string {
	if postgres.IsConnString(config) || strings.Contains(config, "host=") {
		config = constants.DefaultConfigPath
	}
	path, err := cli.ExpandPath(config)
	if err != nil {
		return os.TempDir()
	}
	return filepath.Dir(path)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Task-to-timeslot scheduler for a recurring daily template"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: logDir(CLI.Config), Level: CLI.LogLevel}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	store, err := cli.OpenStore(CLI.Config)
	if errors.Is(err, cli.ErrEmbeddedCredentials) {
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		os.Exit(1)
	}
	apperrors.Fatal(err)

	appCtx := &cli.Context{Store: store}

	if !skipLoad(ctx.Command()) {
		apperrors.Fatal(store.Load())
	}
	defer store.Close()

	if CLI.Now != "" {
		loc := time.Local
		if !skipLoad(ctx.Command()) {
			loc = appCtx.Location()
		}
		now, err := utils.ParseDateTimeInLocation(CLI.Now, loc)
		apperrors.Fatal(err)
		appCtx.Now = &now
	}

	logger.Debug("Running command", "command", ctx.Command(), "store", store.GetConfigPath())
	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}
