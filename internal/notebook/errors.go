// Package notebook is the glue around the note store: configuration, notes
// file location, locking, destructive reset and export.
package notebook

import "errors"

// Error variables for notebook operations.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrUnknownDriver      = errors.New("unknown driver")
	ErrNoHomeDir          = errors.New("cannot determine home directory (set HOME or pass --file)")
	ErrNotesFileMissing   = errors.New("notes file does not exist")
	ErrUnknownFormat      = errors.New("unknown export format")
	ErrLockTimeout        = errors.New("lock timeout")
)
