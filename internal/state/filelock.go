package state

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// ErrLockHeld is returned when TryLockFile cannot acquire a lock
// because it is already held by another process.
var ErrLockHeld = errors.New("lock is held by another process")

// FileLock is an advisory flock(2) lock on a file. The generator holds one on
// the cache lock file for the whole run, so only one run per working
// directory reads and rewrites the cache.
type FileLock struct {
	file *os.File
	path string
}

// TryLockFile acquires an exclusive lock on path without blocking.
// It creates the file if it doesn't exist and returns ErrLockHeld when
// another process owns the lock.
func TryLockFile(path string) (*FileLock, error) {
	//nolint:gosec // G304: path is derived from the working directory
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open file for locking: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return nil, ErrLockHeld
		}
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}

	return &FileLock{
		file: f,
		path: path,
	}, nil
}

// Unlock releases the lock, closes the file and removes it.
func (fl *FileLock) Unlock() error {
	if fl.file == nil {
		return nil
	}

	if err := syscall.Flock(int(fl.file.Fd()), syscall.LOCK_UN); err != nil {
		_ = fl.file.Close()
		return fmt.Errorf("failed to release lock: %w", err)
	}

	if err := fl.file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	fl.file = nil

	if err := os.Remove(fl.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}

	return nil
}

// Path returns the path to the locked file.
func (fl *FileLock) Path() string {
	return fl.path
}
