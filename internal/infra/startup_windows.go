//go:build windows

package infra

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"golang.org/x/sys/windows"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

const (
	shortcutName = "Focus App.lnk"

	// sFalse is returned by CoInitializeEx when COM is already initialized on the thread.
	sFalse = 0x1
)

// ShortcutStartupRegistrar manages a .lnk in the user's Startup folder.
type ShortcutStartupRegistrar struct {
	path string
}

// NewStartupRegistrar returns the registrar for the current user's Startup folder.
func NewStartupRegistrar() domain.StartupRegistrar {
	dir, err := windows.KnownFolderPath(windows.FOLDERID_Startup, 0)
	if err != nil {
		dir = filepath.Join(os.Getenv("APPDATA"), `Microsoft\Windows\Start Menu\Programs\Startup`)
	}
	return NewShortcutStartupRegistrar(filepath.Join(dir, shortcutName))
}

// NewShortcutStartupRegistrar returns a registrar writing the shortcut at path.
func NewShortcutStartupRegistrar(path string) *ShortcutStartupRegistrar {
	return &ShortcutStartupRegistrar{path: path}
}

// Register writes (or overwrites) the shortcut through WScript.Shell.
func (r *ShortcutStartupRegistrar) Register(execPath string) error {
	// COM apartments are per OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			return fmt.Errorf("CoInitializeEx: %w", err)
		}
	}
	defer ole.CoUninitialize()

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return err
	}

	unknown, err := oleutil.CreateObject("WScript.Shell")
	if err != nil {
		return fmt.Errorf("create WScript.Shell: %w", err)
	}
	defer unknown.Release()

	shell, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return err
	}
	defer shell.Release()

	v, err := oleutil.CallMethod(shell, "CreateShortcut", r.path)
	if err != nil {
		return fmt.Errorf("CreateShortcut: %w", err)
	}
	shortcut := v.ToIDispatch()
	defer shortcut.Release()

	props := []struct {
		name  string
		value string
	}{
		{"TargetPath", execPath},
		{"Arguments", StartupArgs},
		{"WorkingDirectory", filepath.Dir(execPath)},
		{"Description", "Focus App"},
	}
	for _, p := range props {
		if _, err := oleutil.PutProperty(shortcut, p.name, p.value); err != nil {
			return fmt.Errorf("set shortcut %s: %w", p.name, err)
		}
	}

	if _, err := oleutil.CallMethod(shortcut, "Save"); err != nil {
		return fmt.Errorf("save shortcut: %w", err)
	}
	return nil
}

// Unregister deletes the shortcut if present.
func (r *ShortcutStartupRegistrar) Unregister() error {
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// IsRegistered checks if the shortcut exists.
func (r *ShortcutStartupRegistrar) IsRegistered() bool {
	_, err := os.Stat(r.path)
	return err == nil
}

// EntryPath returns the shortcut path.
func (r *ShortcutStartupRegistrar) EntryPath() string {
	return r.path
}

// Ensure ShortcutStartupRegistrar implements domain.StartupRegistrar.
var _ domain.StartupRegistrar = (*ShortcutStartupRegistrar)(nil)
