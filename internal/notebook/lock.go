package notebook

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/calvinalkan/noe/internal/store"
)

// LockTimeout is the default timeout for acquiring the notes file lock.
const LockTimeout = 2 * time.Second

// lockPollInterval is how often a contended lock is retried.
const lockPollInterval = 10 * time.Millisecond

const lockFilePerms = 0o600

// WithLock runs handler while holding an exclusive advisory lock on
// notesPath. The lock lives in a sidecar "<notesPath>.lock" file so the
// notes file itself can be removed while the lock is held.
func WithLock(notesPath string, handler func() error) error {
	return WithLockTimeout(notesPath, LockTimeout, handler)
}

// WithLockTimeout is [WithLock] with an explicit timeout.
func WithLockTimeout(notesPath string, timeout time.Duration, handler func() error) error {
	lock, err := acquireLock(notesPath+".lock", timeout)
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}

	defer lock.release()

	return handler()
}

// fileLock is a held flock on a lock file.
type fileLock struct {
	path string
	file *os.File
}

// release removes the lock file while still holding the lock, then unlocks.
func (l *fileLock) release() {
	if l.file == nil {
		return
	}

	_ = os.Remove(l.path)
	_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	_ = l.file.Close()
	l.file = nil
}

// acquireLock polls a non-blocking flock until it succeeds or timeout passes.
// After locking it checks that the file at lockPath is still the one it
// opened; a releasing holder may have unlinked it in between.
func acquireLock(lockPath string, timeout time.Duration) (*fileLock, error) {
	deadline := time.Now().Add(timeout)

	for {
		file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, lockFilePerms)
		if err != nil {
			return nil, fmt.Errorf("%w: open lock file: %w", store.ErrStorageUnavailable, err)
		}

		fd := int(file.Fd())

		err = unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			if sameFile(fd, lockPath) {
				return &fileLock{path: lockPath, file: file}, nil
			}

			_ = unix.Flock(fd, unix.LOCK_UN)
			_ = file.Close()

			continue
		}

		_ = file.Close()

		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			return nil, fmt.Errorf("flock %s: %w", lockPath, err)
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, lockPath)
		}

		time.Sleep(lockPollInterval)
	}
}

func sameFile(fd int, path string) bool {
	var opened, onDisk unix.Stat_t

	if unix.Fstat(fd, &opened) != nil {
		return false
	}

	if unix.Stat(path, &onDisk) != nil {
		return false
	}

	return opened.Dev == onDisk.Dev && opened.Ino == onDisk.Ino
}
