// Package store persists notes in a single SQL table and allocates their numbers.
//
// Every method is one statement (or one read followed by one insert for
// [Store.Create]) against the engine; nothing is cached between calls.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Engine is the storage capability a [Store] needs. [*sql.DB] satisfies it,
// so any database/sql driver that speaks the SQLite dialect can back a Store.
type Engine interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	Close() error
}

// Options configures [Open] and [New]. The zero value is usable.
type Options struct {
	// Driver selects the database/sql driver for Open. Empty means [DefaultDriver].
	Driver string

	// Logger receives debug events. Nil disables logging.
	Logger *zerolog.Logger
}

// Store is a handle to the notes table.
type Store struct {
	engine Engine
	log    zerolog.Logger
}

var errStoreClosed = errors.New("store is not open")

// Open opens (creating if needed) the database file at path and ensures the
// notes table exists. Opening an existing file never alters its rows.
// All failures wrap [ErrStorageUnavailable].
func Open(ctx context.Context, path string, opts Options) (*Store, error) {
	if ctx == nil {
		return nil, errors.New("open store: context is nil")
	}

	driver := opts.Driver
	if driver == "" {
		driver = DefaultDriver
	}

	db, err := openSQLite(ctx, driver, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	s, err := New(ctx, db, opts)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	s.log.Debug().Str("path", path).Str("driver", driver).Msg("store opened")

	return s, nil
}

// New wraps an already-open engine and ensures the notes table exists.
// The returned Store owns engine and closes it in [Store.Close].
func New(ctx context.Context, engine Engine, opts Options) (*Store, error) {
	if ctx == nil {
		return nil, errors.New("new store: context is nil")
	}

	if engine == nil {
		return nil, fmt.Errorf("%w: engine is nil", ErrStorageUnavailable)
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	err := createSchema(ctx, engine)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return &Store{engine: engine, log: log}, nil
}

// Close releases the engine. It is safe to call on a nil or closed Store.
func (s *Store) Close() error {
	if s == nil || s.engine == nil {
		return nil
	}

	engine := s.engine
	s.engine = nil

	err := engine.Close()
	if err != nil {
		return fmt.Errorf("close store: %w", err)
	}

	return nil
}
