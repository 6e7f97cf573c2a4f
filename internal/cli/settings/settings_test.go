package settings

import (
	"path/filepath"
	"testing"

	"github.com/mledan/taskometer-sub001/internal/cli"
	"github.com/mledan/taskometer-sub001/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	ctx := &cli.Context{Store: store}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, cleanup
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestSettingsCmd_List(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{List: true}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("settings list failed: %v", err)
	}
}

func TestSettingsCmd_Update(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{
		Timezone:       strPtr("UTC"),
		LookaheadDays:  intPtr(14),
		GranularityMin: intPtr(30),
	}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.Timezone != "UTC" || settings.LookaheadDays != 14 || settings.GranularityMin != 30 {
		t.Errorf("settings = %+v", settings)
	}
	if settings.DefaultDurationMin != 30 {
		t.Errorf("untouched DefaultDurationMin = %d, want 30", settings.DefaultDurationMin)
	}

	sched := ctx.PlannerScheduler()
	if sched.LookaheadDays() != 14 || sched.GranularityMin() != 30 {
		t.Errorf("scheduler lookahead=%d granularity=%d, want 14/30", sched.LookaheadDays(), sched.GranularityMin())
	}
}

func TestSettingsCmd_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     SettingsCmd
		wantErr bool
	}{
		{name: "empty", cmd: SettingsCmd{}},
		{name: "local timezone", cmd: SettingsCmd{Timezone: strPtr("Local")}},
		{name: "bad timezone", cmd: SettingsCmd{Timezone: strPtr("Mars/Olympus")}, wantErr: true},
		{name: "zero lookahead", cmd: SettingsCmd{LookaheadDays: intPtr(0)}, wantErr: true},
		{name: "granularity 5", cmd: SettingsCmd{GranularityMin: intPtr(5)}},
		{name: "granularity 7", cmd: SettingsCmd{GranularityMin: intPtr(7)}, wantErr: true},
		{name: "negative duration", cmd: SettingsCmd{DefaultDurationMin: intPtr(-10)}, wantErr: true},
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
