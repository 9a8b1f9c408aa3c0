//go:build windows

package infra

import (
	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

// ConsoleWindow drives the process console window as the app's main window.
type ConsoleWindow struct {
	hwnd uintptr
}

// NewMainWindow returns the console window, or a headless window when the
// process has no console (e.g. launched from the Startup shortcut with --hidden).
func NewMainWindow(visible bool) domain.MainWindow {
	hwnd, _, _ := procGetConsoleWindow.Call()
	if hwnd == 0 {
		return NewHeadlessWindow(visible)
	}
	w := &ConsoleWindow{hwnd: hwnd}
	if !visible {
		_ = w.Hide()
	}
	return w
}

// Show unhides the window, restoring it if minimized.
func (w *ConsoleWindow) Show() error {
	if iconic, _, _ := procIsIconic.Call(w.hwnd); iconic != 0 {
		procShowWindow.Call(w.hwnd, swRestore)
		return nil
	}
	procShowWindow.Call(w.hwnd, swShow)
	return nil
}

// Activate brings the window to the foreground. Windows may refuse and flash
// the taskbar button instead; that is not an error.
func (w *ConsoleWindow) Activate() error {
	procSetForegroundWindow.Call(w.hwnd)
	return nil
}

func (w *ConsoleWindow) Hide() error {
	procShowWindow.Call(w.hwnd, swHide)
	return nil
}

func (w *ConsoleWindow) IsVisible() bool {
	visible, _, _ := procIsWindowVisible.Call(w.hwnd)
	return visible != 0
}

// Ensure ConsoleWindow implements domain.MainWindow.
var _ domain.MainWindow = (*ConsoleWindow)(nil)
