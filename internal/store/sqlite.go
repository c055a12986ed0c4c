package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	_ "modernc.org/sqlite"          // sqlite driver (pure Go)
)

// Driver names accepted by [Options.Driver].
const (
	DriverSQLite3 = "sqlite3" // github.com/mattn/go-sqlite3 (cgo)
	DriverSQLite  = "sqlite"  // modernc.org/sqlite
)

// DefaultDriver is used when [Options.Driver] is empty.
const DefaultDriver = DriverSQLite3

// busyTimeoutMS bounds how long a statement waits on another process's file lock.
const busyTimeoutMS = 5000

// Drivers lists the driver names Open understands.
func Drivers() []string {
	return []string{DriverSQLite3, DriverSQLite}
}

// IsKnownDriver reports whether name is one of [Drivers].
func IsKnownDriver(name string) bool {
	return slices.Contains(Drivers(), name)
}

func openSQLite(ctx context.Context, driver, path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("open sqlite: path is empty")
	}

	if !IsKnownDriver(driver) {
		return nil, fmt.Errorf("open sqlite: unknown driver %q", driver)
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One connection per process keeps pragmas in effect for every statement.
	db.SetMaxOpenConns(1)

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	err = applyPragmas(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	return db, nil
}

// applyPragmas keeps the single-file rollback journal so deleting the file wipes everything.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	statements := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeoutMS),
		"PRAGMA synchronous = FULL",
	}

	for _, stmt := range statements {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("apply pragma %q: %w", stmt, err)
		}
	}

	return nil
}

// createSchema never drops or rewrites existing rows.
func createSchema(ctx context.Context, engine Engine) error {
	_, err := engine.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS notes (
			number INTEGER PRIMARY KEY,
			text TEXT NOT NULL,
			done BOOLEAN NOT NULL DEFAULT FALSE
		)`)
	if err != nil {
		return fmt.Errorf("create notes table: %w", err)
	}

	return nil
}
