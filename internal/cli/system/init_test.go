package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mledan/taskometer-sub001/internal/cli"
	"github.com/mledan/taskometer-sub001/internal/models"
	"github.com/mledan/taskometer-sub001/internal/storage/sqlite"
)

func setupTestInitDB(t *testing.T) (*cli.Context, string, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	ctx := &cli.Context{Store: store}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, dbPath, cleanup
}

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Errorf("init command failed: %v", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}
	task := models.Task{ID: "t1", Name: "Gone soon", DurationMin: 30, Priority: models.PriorityLow, Status: models.StatusPending}
	if err := ctx.Store.AddTask(task); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("force init failed: %v", err)
	}

	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		t.Fatalf("GetAllTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("force init kept %d tasks, want 0", len(tasks))
	}
}

func TestInitCmd_ForceSameSource(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}
	if err := (&InitCmd{Force: true, Source: dbPath}).Run(ctx); err == nil {
		t.Error("expected error when source and destination are the same")
	}
}

func TestInitCmd_CopiesFromSource(t *testing.T) {
	srcPath := filepath.Join(t.TempDir(), "source.db")
	src := sqlite.NewStore(srcPath)
	if err := src.Init(); err != nil {
		t.Fatalf("source init failed: %v", err)
	}

	at := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	days := models.NewWeekdayMask(time.Monday)
	seed := []func() error{
		func() error {
			return src.SaveTemplate([]models.TimeBlock{{ID: "focus", Name: "Focus", Start: models.NewTimeOfDay(9, 0), End: models.NewTimeOfDay(12, 0), ActivityType: "work", Flexibility: models.FlexibilityFixed}})
		},
		func() error {
			return src.SaveConstraint(models.TaskTypeConstraint{ActivityType: "work", AllowedWeekdays: &days})
		},
		func() error {
			return src.AddTask(models.Task{ID: "t1", Name: "Plan", ActivityType: "work", DurationMin: 45, Priority: models.PriorityHigh, Status: models.StatusPending, ScheduledAt: &at})
		},
		func() error {
			return src.AddTask(models.Task{ID: "t2", Name: "Old", DurationMin: 15, Priority: models.PriorityLow, Status: models.StatusPending})
		},
		func() error { return src.DeleteTask("t2") },
		func() error {
			return src.ApplyEvent(models.Event{ID: "e1", Name: "Call", Date: "2026-01-06", Start: models.NewTimeOfDay(14, 0), End: models.NewTimeOfDay(15, 0)}, nil)
		},
	}
	for i, fn := range seed {
		if err := fn(); err != nil {
			t.Fatalf("seed step %d failed: %v", i, err)
		}
	}
	src.Close()

	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{Source: srcPath}).Run(ctx); err != nil {
		t.Fatalf("init with source failed: %v", err)
	}

	tasks, err := ctx.Store.GetAllTasksIncludingDeleted()
	if err != nil {
		t.Fatalf("GetAllTasksIncludingDeleted failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("copied %d tasks, want 2", len(tasks))
	}
	t1, err := ctx.Store.GetTask("t1")
	if err != nil || t1.ScheduledAt == nil || !t1.ScheduledAt.Equal(at) {
		t.Errorf("t1 = %+v (err %v), want scheduled at %v", t1, err, at)
	}
	if _, err := ctx.Store.GetTask("t2"); err == nil {
		t.Error("deleted task should stay deleted after copy")
	}

	blocks, _ := ctx.Store.GetTemplate()
	if len(blocks) != 1 || blocks[0].ID != "focus" {
		t.Errorf("blocks = %+v", blocks)
	}
	constraints, _ := ctx.Store.GetConstraints()
	if c := constraints.For("work"); c == nil || c.AllowedWeekdays == nil || *c.AllowedWeekdays != days {
		t.Errorf("work constraint = %+v", c)
	}
	events, _ := ctx.Store.GetEvents()
	if len(events) != 1 || events[0].ID != "e1" {
		t.Errorf("events = %+v", events)
	}
}
