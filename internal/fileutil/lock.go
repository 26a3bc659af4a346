package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is the advisory lock created inside an output directory.
const LockFileName = ".storydl.lock"

// ErrLocked reports that another process holds the directory lock.
var ErrLocked = errors.New("directory locked by another process")

// DirLock is an advisory lock on an output directory.
type DirLock struct {
	path string
	lock *flock.Flock
}

// LockDir acquires the advisory lock for dir without blocking.
func LockDir(dir string) (*DirLock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if err := CheckWritable(dir); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, LockFileName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return &DirLock{path: path, lock: lock}, nil
}

// Path returns the lock file location.
func (l *DirLock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Unlock releases the lock. The lock file itself is left in place.
func (l *DirLock) Unlock() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
