package indexer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// runLock is an advisory, cross-process file lock serializing indexing
// runs against one metadata/vector store pair (C20), grounded on
// internal/embed's FileLock (same library, same Lock/Unlock shape),
// adapted here to guard a run instead of a model download.
type runLock struct {
	flock  *flock.Flock
	locked bool
}

// newRunLock creates a lock file at <dir>/.index.lock.
func newRunLock(dir string) *runLock {
	return &runLock{flock: flock.New(filepath.Join(dir, ".index.lock"))}
}

// Lock acquires the lock, blocking until it is available.
func (l *runLock) Lock() error {
	if dir := filepath.Dir(l.flock.Path()); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create lock directory: %w", err)
		}
	}
	if err := l.flock.Lock(); err != nil {
		return fmt.Errorf("acquire index run lock: %w", err)
	}
	l.locked = true
	return nil
}

// Unlock releases the lock. Safe to call multiple times.
func (l *runLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	return l.flock.Unlock()
}
