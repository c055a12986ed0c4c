package notebook

import (
	"errors"
	"fmt"
	"os"
)

// sqliteSidecars are the files SQLite may leave next to a database.
var sqliteSidecars = []string{"-journal", "-wal", "-shm"}

// Explode deletes the notes file and any SQLite sidecar files, wiping every
// note. It returns [ErrNotesFileMissing] when there is nothing to delete.
func Explode(path string) error {
	err := os.Remove(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotesFileMissing, path)
		}

		return fmt.Errorf("remove notes file: %w", err)
	}

	for _, suffix := range sqliteSidecars {
		err = os.Remove(path + suffix)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", path+suffix, err)
		}
	}

	return nil
}
