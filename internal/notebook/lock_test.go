package notebook_test

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/calvinalkan/noe/internal/notebook"
	"github.com/calvinalkan/noe/internal/store"
)

// errTestCallback is used for testing error handling in callbacks.
var errTestCallback = errors.New("test callback error")

func Test_WithLock_Returns_Handler_Error_When_Handler_Fails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.db")

	err := notebook.WithLock(path, func() error { return errTestCallback })
	if !errors.Is(err, errTestCallback) {
		t.Fatalf("err = %v, want errTestCallback", err)
	}
}

func Test_WithLock_Removes_Lock_File_When_Released(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.db")

	err := notebook.WithLock(path, func() error {
		_, statErr := os.Stat(path + ".lock")
		if statErr != nil {
			t.Errorf("lock file missing while held: %v", statErr)
		}

		return nil
	})
	if err != nil {
		t.Fatalf("with lock: %v", err)
	}

	_, err = os.Stat(path + ".lock")
	if !os.IsNotExist(err) {
		t.Fatalf("lock file still present after release: %v", err)
	}
}

func Test_WithLock_Serializes_Handlers_When_Called_Concurrently(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.db")
	counterPath := filepath.Join(dir, "counter")

	err := os.WriteFile(counterPath, []byte("0"), 0o600)
	if err != nil {
		t.Fatalf("write counter: %v", err)
	}

	const workers = 20

	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			lockErr := notebook.WithLockTimeout(path, 10*time.Second, func() error {
				data, readErr := os.ReadFile(counterPath)
				if readErr != nil {
					return readErr
				}

				n, convErr := strconv.Atoi(string(data))
				if convErr != nil {
					return convErr
				}

				return os.WriteFile(counterPath, []byte(strconv.Itoa(n+1)), 0o600)
			})
			if lockErr != nil {
				t.Errorf("with lock: %v", lockErr)
			}
		}()
	}

	wg.Wait()

	data, err := os.ReadFile(counterPath)
	if err != nil {
		t.Fatalf("read counter: %v", err)
	}

	if got, want := string(data), strconv.Itoa(workers); got != want {
		t.Fatalf("counter=%s, want=%s (lost updates)", got, want)
	}
}

func Test_WithLockTimeout_Returns_ErrLockTimeout_When_Lock_Held(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.db")
	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- notebook.WithLock(path, func() error {
			close(held)
			<-release

			return nil
		})
	}()

	<-held

	err := notebook.WithLockTimeout(path, 50*time.Millisecond, func() error {
		t.Error("handler ran while lock was held elsewhere")

		return nil
	})

	close(release)

	if !errors.Is(err, notebook.ErrLockTimeout) {
		t.Fatalf("err = %v, want ErrLockTimeout", err)
	}

	if holderErr := <-done; holderErr != nil {
		t.Fatalf("holder: %v", holderErr)
	}
}

func Test_WithLock_Returns_ErrStorageUnavailable_When_Directory_Missing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "notes.db")

	err := notebook.WithLock(path, func() error {
		t.Error("handler ran without a lock")

		return nil
	})
	if !errors.Is(err, store.ErrStorageUnavailable) {
		t.Fatalf("err = %v, want ErrStorageUnavailable", err)
	}
}
