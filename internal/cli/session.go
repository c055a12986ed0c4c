package cli

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/calvinalkan/noe/internal/notebook"
	"github.com/calvinalkan/noe/internal/store"
)

// Session is what commands share within one invocation: the config inputs
// and the debug logger. Config is loaded on first use so that help output
// and argument errors never depend on HOME or config files.
type Session struct {
	input notebook.LoadConfigInput
	log   *zerolog.Logger
	cfg   *notebook.Config
}

// NewSession creates a session. log may be nil.
func NewSession(input notebook.LoadConfigInput, log *zerolog.Logger) *Session {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}

	return &Session{input: input, log: log}
}

// Config loads and caches the effective configuration.
func (s *Session) Config() (*notebook.Config, error) {
	if s.cfg != nil {
		return s.cfg, nil
	}

	cfg, err := notebook.LoadConfig(s.input)
	if err != nil {
		return nil, err
	}

	s.cfg = &cfg
	s.log.Debug().Str("file", cfg.FileAbs).Str("driver", cfg.Driver).Msg("config loaded")

	return s.cfg, nil
}

// Read opens the notes file, runs fn and closes the store.
func (s *Session) Read(ctx context.Context, fn func(*store.Store) error) error {
	cfg, err := s.Config()
	if err != nil {
		return err
	}

	return s.withStore(ctx, cfg, fn)
}

// Write is [Session.Read] under the notes file lock.
func (s *Session) Write(ctx context.Context, fn func(*store.Store) error) error {
	cfg, err := s.Config()
	if err != nil {
		return err
	}

	return notebook.WithLock(cfg.FileAbs, func() error {
		return s.withStore(ctx, cfg, fn)
	})
}

// Reset runs fn with the notes file path under the notes file lock. The
// store is opened and closed first, so the file exists whenever its
// location is usable, exactly as for every other command.
func (s *Session) Reset(ctx context.Context, fn func(path string) error) error {
	cfg, err := s.Config()
	if err != nil {
		return err
	}

	return notebook.WithLock(cfg.FileAbs, func() error {
		err := s.withStore(ctx, cfg, func(*store.Store) error { return nil })
		if err != nil {
			return err
		}

		return fn(cfg.FileAbs)
	})
}

func (s *Session) withStore(ctx context.Context, cfg *notebook.Config, fn func(*store.Store) error) error {
	st, err := store.Open(ctx, cfg.FileAbs, store.Options{Driver: cfg.Driver, Logger: s.log})
	if err != nil {
		return err
	}

	defer func() { _ = st.Close() }()

	return fn(st)
}
