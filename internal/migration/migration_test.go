package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func migrationsFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestNewRunner_RejectsUnknownDriver(t *testing.T) {
	db := setupTestDB(t)
	if _, err := NewRunner(db, migrationsFS(nil), "mysql"); err == nil {
		t.Error("expected error for unsupported driver")
	}
	if _, err := NewRunner(db, nil, DriverSQLite); err == nil {
		t.Error("expected error for nil filesystem")
	}
}

func TestApplyMigrations(t *testing.T) {
	db := setupTestDB(t)
	fsys := migrationsFS(map[string]string{
		"002_blocks.sql": "CREATE TABLE blocks (id TEXT PRIMARY KEY);",
		"001_init.sql":   "CREATE TABLE tasks (id TEXT PRIMARY KEY); CREATE TABLE events (id TEXT PRIMARY KEY);",
		"README.md":      "ignored",
	})

	runner, err := NewRunner(db, fsys, DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	var logs []string
	count, err := runner.ApplyMigrations(func(msg string) { logs = append(logs, msg) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("applied %d migrations, want 2", count)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}

	for _, table := range []string{"tasks", "events", "blocks"} {
		if _, err := db.Exec("SELECT count(*) FROM " + table); err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	// Second run is a no-op.
	count, err = runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second ApplyMigrations failed: %v", err)
	}
	if count != 0 {
		t.Errorf("second run applied %d migrations, want 0", count)
	}

	st, err := runner.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !st.UpToDate() {
		t.Errorf("Status = %+v, want up to date", st)
	}
}

func TestApplyMigrations_FailureRollsBack(t *testing.T) {
	db := setupTestDB(t)
	fsys := migrationsFS(map[string]string{
		"001_init.sql":   "CREATE TABLE tasks (id TEXT PRIMARY KEY);",
		"002_broken.sql": "CREATE TABLE broken (id TEXT PRIMARY KEY); THIS IS NOT SQL;",
	})

	runner, err := NewRunner(db, fsys, DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	count, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if count != 1 {
		t.Errorf("applied %d migrations before failure, want 1", count)
	}
	if !strings.Contains(err.Error(), "migration 2") {
		t.Errorf("error %q does not name the failing migration", err)
	}

	version, _ := runner.GetCurrentVersion()
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}
}

func TestReadMigrationFiles_Errors(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name  string
		files map[string]string
	}{
		{name: "missing underscore", files: map[string]string{"001.sql": ""}},
		{name: "non-numeric version", files: map[string]string{"abc_init.sql": ""}},
		{name: "zero version", files: map[string]string{"000_init.sql": ""}},
		{name: "duplicate version", files: map[string]string{"001_a.sql": "", "1_b.sql": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, err := NewRunner(db, migrationsFS(tt.files), DriverSQLite)
			if err != nil {
				t.Fatalf("NewRunner failed: %v", err)
			}
			if _, err := runner.ReadMigrationFiles(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidateVersion_NewerDatabase(t *testing.T) {
	db := setupTestDB(t)
	runner, err := NewRunner(db, migrationsFS(map[string]string{
		"001_init.sql": "CREATE TABLE tasks (id TEXT PRIMARY KEY);",
	}), DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	err = runner.ValidateVersion()
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("ValidateVersion() = %v, want newer-schema error", err)
	}
}
