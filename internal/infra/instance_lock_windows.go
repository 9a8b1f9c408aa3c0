//go:build windows

package infra

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

// MutexInstanceLock is a named Win32 mutex used only as an existence marker.
// It is created unowned so Release may run on any OS thread.
type MutexInstanceLock struct {
	name   string
	handle windows.Handle
}

// NewInstanceLock creates the lock for the current session.
func NewInstanceLock(*Paths) domain.InstanceLock {
	return &MutexInstanceLock{name: domain.InstanceLockName}
}

// TryAcquire creates the named mutex. false means another process created it first.
func (l *MutexInstanceLock) TryAcquire() (bool, error) {
	if l.handle != 0 {
		return true, nil
	}

	name, err := windows.UTF16PtrFromString(l.name)
	if err != nil {
		return false, err
	}

	h, err := windows.CreateMutex(nil, false, name)
	if h == 0 {
		return false, fmt.Errorf("CreateMutex(%s): %w", l.name, err)
	}
	if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		windows.CloseHandle(h)
		return false, nil
	}

	l.handle = h
	return true, nil
}

// Release closes the handle. The OS drops the mutex with the last handle.
func (l *MutexInstanceLock) Release() error {
	if l.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(l.handle)
	l.handle = 0
	return err
}

// Ensure MutexInstanceLock implements domain.InstanceLock.
var _ domain.InstanceLock = (*MutexInstanceLock)(nil)
