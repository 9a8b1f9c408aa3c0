//go:build windows

package infra

import "golang.org/x/sys/windows"

// Shared user32/kernel32 procs. Defined once for every Windows file in the package.
var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procShowWindow               = user32.NewProc("ShowWindow")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procIsIconic                 = user32.NewProc("IsIconic")

	procGetConsoleWindow = kernel32.NewProc("GetConsoleWindow")
)

// ShowWindow commands.
const (
	swHide     = 0
	swShow     = 5
	swMinimize = 6
	swRestore  = 9
)
