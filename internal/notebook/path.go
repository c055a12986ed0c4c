package notebook

import (
	"os"
	"path/filepath"
)

// DefaultFileName is the notes file created in the home directory or in an
// explicitly given directory.
const DefaultFileName = ".notes.db"

// ResolvePath picks the notes file location.
//
//   - explicit empty: homeDir/defaultName (ErrNoHomeDir if homeDir is empty)
//   - explicit is a directory (per isDir): explicit/defaultName
//   - otherwise: explicit unchanged
//
// ResolvePath reads no process state; only isDir looks at the filesystem.
func ResolvePath(explicit, homeDir, defaultName string, isDir func(string) bool) (string, error) {
	if explicit == "" {
		if homeDir == "" {
			return "", ErrNoHomeDir
		}

		return filepath.Join(homeDir, defaultName), nil
	}

	if isDir != nil && isDir(explicit) {
		return filepath.Join(explicit, defaultName), nil
	}

	return explicit, nil
}

// IsDir reports whether path exists and is a directory. It is the isDir check
// used outside tests.
func IsDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
