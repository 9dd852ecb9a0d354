package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	DriverSQLite   = "sqlite"
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know about.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// OpenDB connects to one of the supported drivers and creates the schema.
// For sqlite, dsn is a file path and its directory is created on demand.
func OpenDB(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		if dir := filepath.Dir(dsn); dsn != ":memory:" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	case DriverPgx, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		// One writer at a time avoids SQLITE_BUSY between pooled connections.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the habit tables when they are missing.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	timestampType := "TIMESTAMPTZ"
	if db.DriverName() == DriverSQLite {
		timestampType = "TIMESTAMP"
	}

	stmts := []string{
		fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS habits (
            id                TEXT PRIMARY KEY,
            name              TEXT NOT NULL,
            recurrence        TEXT NOT NULL,
            active_weekdays   TEXT NOT NULL DEFAULT '[]',
            reminder_enabled  BOOLEAN NOT NULL DEFAULT FALSE,
            reminder_time     TEXT NULL,
            reminder_weekdays TEXT NOT NULL DEFAULT '[]',
            goal_type         TEXT NOT NULL DEFAULT 'none',
            target_value      DOUBLE PRECISION NULL,
            unit              TEXT NULL,
            symbol_id         TEXT NULL,
            color_hex         TEXT NULL,
            sort_order        INTEGER NOT NULL DEFAULT 0,
            version           INTEGER NOT NULL DEFAULT 1,
            created_at        %[1]s NOT NULL,
            updated_at        %[1]s NOT NULL
        )`, timestampType),
		`
        CREATE TABLE IF NOT EXISTS habit_completions (
            habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
            day      TEXT NOT NULL,
            PRIMARY KEY (habit_id, day)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_habits_sort_order ON habits (sort_order, created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}

	return false
}
