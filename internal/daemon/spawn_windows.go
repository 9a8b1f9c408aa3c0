//go:build windows

package daemon

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// The child gets its own (hidden) console so a wake command has a window to show.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_CONSOLE | windows.CREATE_NEW_PROCESS_GROUP,
		HideWindow:    true,
	}
}
