//go:build !windows

package infra

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

// FileInstanceLock is an flock on a file in the data directory. The kernel
// drops it when the process dies, so there is no stale-lock recovery.
type FileInstanceLock struct {
	path string
	file *os.File
}

// NewInstanceLock creates the lock at paths.LockPath.
func NewInstanceLock(paths *Paths) domain.InstanceLock {
	return &FileInstanceLock{path: paths.LockPath}
}

// TryAcquire takes a non-blocking exclusive flock.
func (l *FileInstanceLock) TryAcquire() (bool, error) {
	if l.file != nil {
		return true, nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return false, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return false, nil
		}
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}

	l.file = f
	return true, nil
}

// Release unlocks and closes. The file stays so no other process races on its inode.
func (l *FileInstanceLock) Release() error {
	if l.file == nil {
		return nil
	}
	_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	err := l.file.Close()
	l.file = nil
	return err
}

// Ensure FileInstanceLock implements domain.InstanceLock.
var _ domain.InstanceLock = (*FileInstanceLock)(nil)
