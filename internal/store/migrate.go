package store

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/matheus3301/bookadmin/internal/store/migrations"
)

// SchemaVersion is the newest migration shipped with this build: settings and
// import history (1), recent filter values (2).
const SchemaVersion = 2

// migrationsTable tracks applied versions inside the profile database.
const migrationsTable = "bookadmin_schema"

// ErrDirtySchema means an earlier upgrade stopped halfway. The profile store
// must be repaired or removed before a console can use it.
var ErrDirtySchema = errors.New("local store schema is marked dirty")

// MigrateResult reports the schema state after Migrate.
type MigrateResult struct {
	Version uint
	Dirty   bool
	Changed bool
}

// Migrate upgrades the profile store to SchemaVersion. A store written by a
// newer build is refused rather than touched.
func (db *DB) Migrate() (*MigrateResult, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("load embedded store migrations: %w", err)
	}
	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return nil, fmt.Errorf("prepare local store for migration: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("open local store migrator: %w", err)
	}

	before, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		before = 0
	case err != nil:
		return nil, fmt.Errorf("read local store version: %w", err)
	case dirty:
		return &MigrateResult{Version: before, Dirty: true}, fmt.Errorf("%w at version %d", ErrDirtySchema, before)
	case before > SchemaVersion:
		return nil, fmt.Errorf("local store is at schema %d, this build knows %d; upgrade bookadmin", before, SchemaVersion)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return nil, fmt.Errorf("upgrade local store from schema %d: %w", before, err)
	}
	after, dirty, err := m.Version()
	if err != nil {
		return nil, fmt.Errorf("read local store version: %w", err)
	}
	return &MigrateResult{Version: after, Dirty: dirty, Changed: after != before}, nil
}
