package grading

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLockHeld indicates another process is already grading.
var ErrLockHeld = errors.New("another grading run is already in progress")

// RunLock guards the database against concurrent grading runs.
type RunLock struct {
	lock *flock.Flock
}

// AcquireRunLock takes the grading lock, failing immediately when another
// holder exists.
func AcquireRunLock(path string) (*RunLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLockHeld
	}
	return &RunLock{lock: lock}, nil
}

// Release drops the lock. Safe to call on a nil lock.
func (l *RunLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
