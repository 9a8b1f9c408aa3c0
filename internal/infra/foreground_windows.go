//go:build windows

package infra

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

// WindowsForegroundInspector implements domain.ForegroundInspector with user32.
type WindowsForegroundInspector struct {
	pm domain.ProcessManager
}

// NewForegroundInspector creates the inspector. pm resolves paths that
// QueryFullProcessImageName cannot.
func NewForegroundInspector(pm domain.ProcessManager) domain.ForegroundInspector {
	return &WindowsForegroundInspector{pm: pm}
}

// Foreground samples the foreground window, its PID and full executable path.
func (i *WindowsForegroundInspector) Foreground() (domain.ForegroundWindow, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return domain.ForegroundWindow{}, domain.ErrNoForegroundWindow
	}

	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if pid == 0 {
		return domain.ForegroundWindow{}, fmt.Errorf("unable to resolve pid of window %#x", hwnd)
	}

	path, err := queryImagePath(pid)
	if err != nil {
		fallback, ferr := i.pm.ExecutablePath(int(pid))
		if ferr != nil {
			return domain.ForegroundWindow{}, errors.Join(err, ferr)
		}
		path = fallback
	}

	return domain.ForegroundWindow{
		Handle:         hwnd,
		PID:            int(pid),
		ExecutablePath: path,
	}, nil
}

// Minimize sends SW_MINIMIZE. ShowWindow reports prior visibility, not failure.
func (i *WindowsForegroundInspector) Minimize(handle uintptr) error {
	if handle == 0 {
		return errors.New("invalid window handle")
	}
	procShowWindow.Call(handle, swMinimize)
	return nil
}

func queryImagePath(pid uint32) (string, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return "", fmt.Errorf("OpenProcess(%d): %w", pid, err)
	}
	defer windows.CloseHandle(h)

	size := uint32(windows.MAX_LONG_PATH)
	buf := make([]uint16, size)
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", fmt.Errorf("QueryFullProcessImageName(%d): %w", pid, err)
	}
	return windows.UTF16ToString(buf[:size]), nil
}

// Ensure WindowsForegroundInspector implements domain.ForegroundInspector.
var _ domain.ForegroundInspector = (*WindowsForegroundInspector)(nil)
