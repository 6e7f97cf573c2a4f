package schedule

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mledan/taskometer-sub001/internal/cli"
	"github.com/mledan/taskometer-sub001/internal/models"
	"github.com/mledan/taskometer-sub001/internal/storage/sqlite"
)

// Monday 2026-01-05, 08:00 UTC.
var testNow = time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	blocks := []models.TimeBlock{
		{ID: "focus", Name: "Focus", Start: models.NewTimeOfDay(9, 0), End: models.NewTimeOfDay(12, 0), ActivityType: "work", Flexibility: models.FlexibilityFixed},
		{ID: "evening", Name: "Evening", Start: models.NewTimeOfDay(18, 0), End: models.NewTimeOfDay(22, 0), ActivityType: "buffer", Flexibility: models.FlexibilityFlexible},
	}
	if err := store.SaveTemplate(blocks); err != nil {
		t.Fatalf("failed to save template: %v", err)
	}

	now := testNow
	return &cli.Context{Store: store, Now: &now}
}

func addTask(t *testing.T, ctx *cli.Context, task models.Task) {
	t.Helper()
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if err := ctx.Store.AddTask(task); err != nil {
		t.Fatalf("AddTask(%s) failed: %v", task.ID, err)
	}
}

func getTask(t *testing.T, ctx *cli.Context, id string) models.Task {
	t.Helper()
	task, err := ctx.Store.GetTask(id)
	if err != nil {
		t.Fatalf("GetTask(%s) failed: %v", id, err)
	}
	return task
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 1, 5, hour, minute, 0, 0, time.UTC)
}

func TestScheduleCmd_PersistsBatch(t *testing.T) {
	ctx := setupTestDB(t)
	addTask(t, ctx, models.Task{ID: "a", Name: "A", ActivityType: "work", DurationMin: 90})
	addTask(t, ctx, models.Task{ID: "b", Name: "B", ActivityType: "work", DurationMin: 90})

	if err := (&ScheduleCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	a, b := getTask(t, ctx, "a"), getTask(t, ctx, "b")
	if a.ScheduledAt == nil || !a.ScheduledAt.Equal(at(9, 0)) {
		t.Errorf("a.ScheduledAt = %v, want 09:00", a.ScheduledAt)
	}
	if b.ScheduledAt == nil || !b.ScheduledAt.Equal(at(10, 30)) {
		t.Errorf("b.ScheduledAt = %v, want 10:30", b.ScheduledAt)
	}
}

func TestScheduleCmd_DryRunSavesNothing(t *testing.T) {
	ctx := setupTestDB(t)
	addTask(t, ctx, models.Task{ID: "a", Name: "A", ActivityType: "work", DurationMin: 30})

	if err := (&ScheduleCmd{DryRun: true}).Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if getTask(t, ctx, "a").IsScheduled() {
		t.Error("dry run should not persist placements")
	}
}

func TestScheduleCmd_Select(t *testing.T) {
	placed := at(9, 0)
	tasks := []models.Task{
		{ID: "new", Status: models.StatusPending},
		{ID: "placed", Status: models.StatusPending, ScheduledAt: &placed},
		{ID: "paused", Status: models.StatusPaused},
		{ID: "done", Status: models.StatusCompleted},
	}

	tests := []struct {
		name string
		cmd  ScheduleCmd
		want []string
	}{
		{name: "unscheduled only", cmd: ScheduleCmd{}, want: []string{"new"}},
		{name: "all", cmd: ScheduleCmd{All: true}, want: []string{"new", "placed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cmd.Select(tasks)
			if len(got) != len(tt.want) {
				t.Fatalf("Select() returned %d tasks, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("Select()[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestScheduleCmd_AvoidsEvents(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&EventAddCmd{Name: "Standup", Date: "2026-01-05", Start: "09:00", End: "10:00"}).Run(ctx); err != nil {
		t.Fatalf("event add failed: %v", err)
	}
	addTask(t, ctx, models.Task{ID: "a", Name: "A", ActivityType: "work", DurationMin: 60})

	if err := (&ScheduleCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	a := getTask(t, ctx, "a")
	if a.ScheduledAt == nil || !a.ScheduledAt.Equal(at(10, 0)) {
		t.Errorf("a.ScheduledAt = %v, want 10:00 after the event", a.ScheduledAt)
	}
}

func TestPlaceCmd(t *testing.T) {
	ctx := setupTestDB(t)
	addTask(t, ctx, models.Task{ID: "a", Name: "A", ActivityType: "chores", DurationMin: 30})
	addTask(t, ctx, models.Task{ID: "p", Name: "Paused", ActivityType: "work", DurationMin: 30, Status: models.StatusPaused})

	if err := (&PlaceCmd{ID: "a"}).Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	a := getTask(t, ctx, "a")
	if a.ScheduledAt == nil || !a.ScheduledAt.Equal(at(18, 0)) {
		t.Errorf("a.ScheduledAt = %v, want 18:00 in the buffer block", a.ScheduledAt)
	}
	if a.AssignedBlockID != "evening" {
		t.Errorf("AssignedBlockID = %q, want evening", a.AssignedBlockID)
	}

	if err := (&PlaceCmd{ID: "p"}).Run(ctx); err == nil {
		t.Error("expected error placing a paused task")
	}
	if err := (&PlaceCmd{ID: "missing"}).Run(ctx); err == nil {
		t.Error("expected error placing a missing task")
	}
}

func TestEventAddCmd_DisplacesAndPersists(t *testing.T) {
	ctx := setupTestDB(t)
	start := at(9, 0)
	addTask(t, ctx, models.Task{ID: "a", Name: "A", ActivityType: "work", DurationMin: 60, ScheduledAt: &start, AssignedBlockID: "focus", Confidence: 80})

	cmd := &EventAddCmd{Name: "Dentist", Date: "2026-01-05", Start: "09:00", End: "10:30"}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	a := getTask(t, ctx, "a")
	if a.ScheduledAt == nil || !a.ScheduledAt.Equal(at(10, 30)) {
		t.Errorf("a.ScheduledAt = %v, want 10:30 after the event", a.ScheduledAt)
	}

	events, err := ctx.Store.GetEvents()
	if err != nil {
		t.Fatalf("GetEvents failed: %v", err)
	}
	if len(events) != 1 || events[0].Name != "Dentist" {
		t.Errorf("events = %+v, want the dentist event", events)
	}
}

func TestEventAddCmd_DryRun(t *testing.T) {
	ctx := setupTestDB(t)
	start := at(9, 0)
	addTask(t, ctx, models.Task{ID: "a", Name: "A", ActivityType: "work", DurationMin: 60, ScheduledAt: &start})

	if err := (&EventAddCmd{Name: "Dentist", Date: "2026-01-05", Start: "09:00", End: "10:30", DryRun: true}).Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if a := getTask(t, ctx, "a"); !a.ScheduledAt.Equal(start) {
		t.Errorf("dry run moved the task to %v", a.ScheduledAt)
	}
	if events, _ := ctx.Store.GetEvents(); len(events) != 0 {
		t.Errorf("dry run stored %d events", len(events))
	}
}

func TestEventAddCmd_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     EventAddCmd
		wantErr bool
	}{
		{name: "valid", cmd: EventAddCmd{Date: "2026-01-05", Start: "09:00", End: "10:00"}},
		{name: "overnight", cmd: EventAddCmd{Date: "2026-01-05", Start: "23:00", End: "01:00"}},
		{name: "bad date", cmd: EventAddCmd{Date: "tomorrow", Start: "09:00", End: "10:00"}, wantErr: true},
		{name: "bad start", cmd: EventAddCmd{Date: "2026-01-05", Start: "9", End: "10:00"}, wantErr: true},
		{name: "empty span", cmd: EventAddCmd{Date: "2026-01-05", Start: "09:00", End: "09:00"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEventListAndDelete(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&EventListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list on empty store failed: %v", err)
	}
	if err := (&EventAddCmd{Name: "Call", Date: "2026-01-06", Start: "14:00", End: "15:00"}).Run(ctx); err != nil {
		t.Fatalf("event add failed: %v", err)
	}
	events, _ := ctx.Store.GetEvents()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if err := (&EventListCmd{ShowIDs: true}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}
	if err := (&EventDeleteCmd{ID: events[0].ID}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := (&EventDeleteCmd{ID: events[0].ID}).Run(ctx); err == nil {
		t.Error("deleting twice should fail")
	}
}

func TestValidateCmd(t *testing.T) {
	ctx := setupTestDB(t)
	addTask(t, ctx, models.Task{ID: "a", Name: "Dup", DurationMin: 30, CreatedAt: at(7, 0)})

	if err := (&ValidateCmd{}).Run(ctx); err != nil {
		t.Fatalf("clean plan reported: %v", err)
	}

	addTask(t, ctx, models.Task{ID: "b", Name: "Dup", DurationMin: 30, CreatedAt: at(7, 30)})
	if err := (&ValidateCmd{}).Run(ctx); err == nil {
		t.Fatal("expected duplicate-name conflict")
	}

	// --fix removes the newer duplicate, but still reports the run.
	if err := (&ValidateCmd{Fix: true}).Run(ctx); err == nil {
		t.Fatal("expected conflicts to be reported on the fixing run")
	}
	if _, err := ctx.Store.GetTask("b"); err == nil {
		t.Error("newer duplicate should have been deleted")
	}
	if err := (&ValidateCmd{}).Run(ctx); err != nil {
		t.Errorf("plan should be clean after fixing: %v", err)
	}
}

func TestScheduleCmd_ExecuteReportsFailures(t *testing.T) {
	ctx := setupTestDB(t)
	addTask(t, ctx, models.Task{ID: "fits", Name: "Fits", ActivityType: "work", DurationMin: 60})
	addTask(t, ctx, models.Task{ID: "huge", Name: "Huge", ActivityType: "work", DurationMin: 600})

	result, err := (&ScheduleCmd{}).Execute(ctx)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.Scheduled != 1 || result.Unscheduled != 1 {
		t.Fatalf("result = %d scheduled, %d unscheduled, want 1 and 1", result.Scheduled, result.Unscheduled)
	}

	huge := getTask(t, ctx, "huge")
	if huge.IsScheduled() {
		t.Error("a task longer than every block should stay unscheduled")
	}
	if huge.FailureReason != models.FailureNoFreeSlot {
		t.Errorf("FailureReason = %q, want %q", huge.FailureReason, models.FailureNoFreeSlot)
	}

	// Nothing left to place on a second run.
	result, err = (&ScheduleCmd{}).Execute(ctx)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if len(result.Tasks) != 1 || result.Tasks[0].ID != "huge" {
		t.Errorf("second run tasks = %v, want only the failed task", result.Tasks)
	}
}
