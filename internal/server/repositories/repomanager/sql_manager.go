// Package repomanager provides a concrete RepositoryManager for SQL
// backends (PostgreSQL through pgx, SQLite through modernc), wiring together
// repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/timeline/internal/dbx"
	"github.com/dmitrijs2005/timeline/internal/server/migrations"
	"github.com/dmitrijs2005/timeline/internal/server/repositories/archive"
	"github.com/dmitrijs2005/timeline/internal/server/repositories/batches"
	"github.com/dmitrijs2005/timeline/internal/server/repositories/entries"
	"github.com/dmitrijs2005/timeline/internal/server/repositories/months"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// SQLRepositoryManager vends SQL-backed repository implementations
// and exposes a schema migration hook.
type SQLRepositoryManager struct {
	dialect string
}

// Entries returns an entries.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewSQLRepository(db)
}

// Months returns a months.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Months(db dbx.DBTX) months.Repository {
	return months.NewSQLRepository(db)
}

// Batches returns a batches.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Batches(db dbx.DBTX) batches.Repository {
	return batches.NewSQLRepository(db)
}

// Archive returns an archive.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Archive(db dbx.DBTX) archive.Repository {
	return archive.NewSQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewSQLRepositoryManager constructs a RepositoryManager for the given
// database/sql driver name.
func NewSQLRepositoryManager(driver string) (RepositoryManager, error) {
	switch driver {
	case DriverPostgres:
		return &SQLRepositoryManager{dialect: "pgx"}, nil
	case DriverSQLite:
		return &SQLRepositoryManager{dialect: "sqlite3"}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// OpenDB opens and pings a database. SQLite handles are limited to a single
// connection so that in-memory databases stay shared and writers serialize.
func OpenDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
