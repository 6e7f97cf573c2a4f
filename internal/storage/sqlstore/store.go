// Package sqlstore implements storage.Provider data access over database/sql.
// The sqlite and postgres packages wrap it with driver-specific lifecycle.
package sqlstore

import (
	"database/sql"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/mledan/taskometer-sub001/internal/migration"
	"github.com/mledan/taskometer-sub001/internal/storage"
	"github.com/mledan/taskometer-sub001/migrations"
)

// Dialect captures the differences between supported databases.
type Dialect struct {
	Name   migration.Driver
	dollar bool
}

var (
	SQLite   = Dialect{Name: migration.DriverSQLite}
	Postgres = Dialect{Name: migration.DriverPostgres, dollar: true}
)

// Rebind rewrites ? placeholders into the dialect's bind variable style.
func (d Dialect) Rebind(query string) string {
	if !d.dollar {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var errNotFound = storage.ErrNotFound

type Store struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB returns the underlying connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

func (s *Store) exec(query string, args ...any) (sql.Result, error) {
	return s.db.Exec(s.dialect.Rebind(query), args...)
}

func (s *Store) query(query string, args ...any) (*sql.Rows, error) {
	return s.db.Query(s.dialect.Rebind(query), args...)
}

func (s *Store) queryRow(query string, args ...any) *sql.Row {
	return s.db.QueryRow(s.dialect.Rebind(query), args...)
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (s *Store) execIn(e execer, query string, args ...any) (sql.Result, error) {
	return e.Exec(s.dialect.Rebind(query), args...)
}

// Runner returns a migration runner over the embedded migrations for the dialect.
func (s *Store) Runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, string(s.dialect.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", s.dialect.Name, err)
	}
	return migration.NewRunner(s.db, subFS, s.dialect.Name)
}

// Migrate applies pending migrations, reporting progress through logFn.
func (s *Store) Migrate(logFn func(string)) error {
	runner, err := s.Runner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(logFn)
	return err
}

// ValidateSchemaVersion fails when the database is newer than this build.
func (s *Store) ValidateSchemaVersion() error {
	runner, err := s.Runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func checkAffected(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, errNotFound)
	}
	return nil
}
